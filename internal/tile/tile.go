// Package tile defines the vocabulary shared by the editor, level files and
// the game: what kinds of tiles exist, how a tile may be placed, and which
// stats a booster can raise.
package tile

import (
	"fmt"
	"strings"
)

// Type identifies what a placed tile represents.
type Type uint8

const (
	Wall Type = iota
	UpStairs
	DownStairs
	YellowKey
	BlueKey
	RedKey
	Player
	Exit
	YellowDoor
	BlueDoor
	RedDoor
	Enemy
	Booster
)

var typeNames = [...]string{
	Wall:       "wall",
	UpStairs:   "up_stairs",
	DownStairs: "down_stairs",
	YellowKey:  "yellow_key",
	BlueKey:    "blue_key",
	RedKey:     "red_key",
	Player:     "player",
	Exit:       "exit",
	YellowDoor: "yellow_door",
	BlueDoor:   "blue_door",
	RedDoor:    "red_door",
	Enemy:      "enemy",
	Booster:    "booster",
}

// Types lists every tile type in declaration order.
func Types() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// IsStatic reports whether the type has no customizable values.
// Only enemies and boosters carry stats and a selectable sprite.
func (t Type) IsStatic() bool {
	return t != Enemy && t != Booster
}

// IsKey reports whether t is one of the key pickups.
func (t Type) IsKey() bool {
	return t == YellowKey || t == BlueKey || t == RedKey
}

// IsDoor reports whether t is one of the locked doors.
func (t Type) IsDoor() bool {
	return t == YellowDoor || t == BlueDoor || t == RedDoor
}

// Valid reports whether t is a declared type.
func (t Type) Valid() bool { return int(t) < len(typeNames) }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
	return typeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown tile type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseType parses a tile type name, case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile type %q", s)
}

// Placement restricts how many elements of one tile may exist.
type Placement uint8

const (
	NoRestriction Placement = iota
	UniquePerFloor
	UniquePerLevel
)

var placementNames = [...]string{
	NoRestriction:  "no_restriction",
	UniquePerFloor: "unique_per_floor",
	UniquePerLevel: "unique_per_level",
}

func (p Placement) String() string {
	if int(p) >= len(placementNames) {
		return fmt.Sprintf("placement(%d)", uint8(p))
	}
	return placementNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	if int(p) >= len(placementNames) {
		return nil, fmt.Errorf("unknown placement %d", uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Placement) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range placementNames {
		if n == s {
			*p = Placement(i)
			return nil
		}
	}
	return fmt.Errorf("unknown placement %q", s)
}

// DefaultPlacement is the policy a fresh palette assigns to t.
func DefaultPlacement(t Type) Placement {
	switch t {
	case Player, Exit:
		return UniquePerLevel
	case UpStairs, DownStairs:
		return UniquePerFloor
	}
	return NoRestriction
}
