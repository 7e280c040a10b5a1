package component

import (
	"open-tower/internal/ecs"
	"open-tower/internal/tile"
)

const (
	CTagPlayer   ecs.ComponentType = 8
	CTagBlocking ecs.ComponentType = 9
	CKind        ecs.ComponentType = 10
	CFloor       ecs.ComponentType = 11
	CElement     ecs.ComponentType = 12
	CBooster     ecs.ComponentType = 13
)

// TagPlayer marks the player-controlled entity.
type TagPlayer struct{}

func (TagPlayer) Type() ecs.ComponentType { return CTagPlayer }

// TagBlocking marks an entity nothing can walk onto or interact with. Doors
// do not carry it: bumping one tries to unlock it.
type TagBlocking struct{}

func (TagBlocking) Type() ecs.ComponentType { return CTagBlocking }

// Kind records which tile type an entity was built from.
type Kind struct {
	Tile tile.Type
}

func (Kind) Type() ecs.ComponentType { return CKind }

// Floor marks a floor entity; its children are the things placed on it.
type Floor struct {
	Index int
}

func (Floor) Type() ecs.ComponentType { return CFloor }

// Element links a placed entity back to the tile definition it came from.
type Element struct {
	Source int // tile definition ID
}

func (Element) Type() ecs.ComponentType { return CElement }

// IsSource reports whether the element was placed from tile definition id.
func (e Element) IsSource(id int) bool { return e.Source == id }

// Booster raises one player stat when picked up.
type Booster struct {
	Stat   tile.Stat
	Amount int
}

func (Booster) Type() ecs.ComponentType { return CBooster }
