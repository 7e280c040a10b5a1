package component

import (
	"errors"
	"fmt"

	"open-tower/internal/ecs"
	"open-tower/internal/tile"
)

const CInventory ecs.ComponentType = 6

var (
	// ErrNegativeKeys is returned when a key count would drop below zero.
	ErrNegativeKeys = errors.New("key count must be nonnegative")
	// ErrNoKey is returned by Use when no key of the colour is held.
	ErrNoKey = errors.New("no key of that colour")
)

// KeyColor selects one of the three key/door colours.
type KeyColor uint8

const (
	KeyYellow KeyColor = iota
	KeyBlue
	KeyRed
)

func (c KeyColor) String() string {
	switch c {
	case KeyYellow:
		return "yellow"
	case KeyBlue:
		return "blue"
	case KeyRed:
		return "red"
	}
	return fmt.Sprintf("key(%d)", uint8(c))
}

// KeyColorOf maps a key or door tile to its colour.
func KeyColorOf(t tile.Type) (KeyColor, bool) {
	switch t {
	case tile.YellowKey, tile.YellowDoor:
		return KeyYellow, true
	case tile.BlueKey, tile.BlueDoor:
		return KeyBlue, true
	case tile.RedKey, tile.RedDoor:
		return KeyRed, true
	}
	return 0, false
}

// Inventory counts the keys the player carries. Every count is nonnegative.
type Inventory struct {
	yellow, blue, red int
}

func (Inventory) Type() ecs.ComponentType { return CInventory }

// NewInventory validates all three counts.
func NewInventory(yellow, blue, red int) (Inventory, error) {
	var inv Inventory
	if err := inv.SetYellow(yellow); err != nil {
		return Inventory{}, err
	}
	if err := inv.SetBlue(blue); err != nil {
		return Inventory{}, err
	}
	if err := inv.SetRed(red); err != nil {
		return Inventory{}, err
	}
	return inv, nil
}

func (inv Inventory) Yellow() int { return inv.yellow }
func (inv Inventory) Blue() int   { return inv.blue }
func (inv Inventory) Red() int    { return inv.red }

func (inv *Inventory) SetYellow(v int) error { return setKeys(&inv.yellow, v) }
func (inv *Inventory) SetBlue(v int) error   { return setKeys(&inv.blue, v) }
func (inv *Inventory) SetRed(v int) error    { return setKeys(&inv.red, v) }

// Count returns the number of keys of colour c.
func (inv Inventory) Count(c KeyColor) int {
	switch c {
	case KeyYellow:
		return inv.yellow
	case KeyBlue:
		return inv.blue
	case KeyRed:
		return inv.red
	}
	return 0
}

// Set assigns the count for colour c.
func (inv *Inventory) Set(c KeyColor, v int) error {
	switch c {
	case KeyYellow:
		return inv.SetYellow(v)
	case KeyBlue:
		return inv.SetBlue(v)
	case KeyRed:
		return inv.SetRed(v)
	}
	return fmt.Errorf("unknown key colour %d", uint8(c))
}

// Add changes the count for colour c by n.
func (inv *Inventory) Add(c KeyColor, n int) error {
	return inv.Set(c, inv.Count(c)+n)
}

// Use consumes one key of colour c.
func (inv *Inventory) Use(c KeyColor) error {
	if inv.Count(c) == 0 {
		return fmt.Errorf("%s: %w", c, ErrNoKey)
	}
	return inv.Add(c, -1)
}

func setKeys(dst *int, v int) error {
	if v < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeKeys, v)
	}
	*dst = v
	return nil
}
