package factory

import (
	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/tile"

	"github.com/gdamore/tcell/v2"
)

// NewFloor creates floor index under the level root.
func NewFloor(w *ecs.World, root ecs.EntityID, index int) ecs.EntityID {
	id := w.CreateChild(root)
	w.Add(id, component.Floor{Index: index})
	return id
}

// NewElement creates a bare placed element: where it is, what it is, which
// tile it came from, and how it looks. Game-specific components are added
// by the typed constructors below.
func NewElement(w *ecs.World, floor ecs.EntityID, source int, typ tile.Type, glyph string, x, y int) ecs.EntityID {
	id := w.CreateChild(floor)
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Element{Source: source})
	w.Add(id, component.Kind{Tile: typ})
	w.Add(id, component.Renderable{
		Glyph:       glyph,
		FGColor:     colorOf(typ),
		RenderOrder: renderOrder(typ),
	})
	return id
}

// NewPlayer creates the player on floor at (x, y).
func NewPlayer(w *ecs.World, floor ecs.EntityID, source int, glyph string, x, y int, stats component.Stats, inv component.Inventory) ecs.EntityID {
	id := NewElement(w, floor, source, tile.Player, glyph, x, y)
	w.Add(id, stats)
	w.Add(id, inv)
	w.Add(id, component.TagPlayer{})
	return id
}

// NewEnemy creates an enemy with its own copy of the tile's stats.
func NewEnemy(w *ecs.World, floor ecs.EntityID, source int, glyph string, x, y int, stats component.Stats) ecs.EntityID {
	id := NewElement(w, floor, source, tile.Enemy, glyph, x, y)
	w.Add(id, stats)
	return id
}

// NewBooster creates a booster pickup.
func NewBooster(w *ecs.World, floor ecs.EntityID, source int, glyph string, x, y int, b component.Booster) ecs.EntityID {
	id := NewElement(w, floor, source, tile.Booster, glyph, x, y)
	w.Add(id, b)
	return id
}

// NewStatic creates walls, doors, keys, stairs and the exit. Walls block
// movement.
func NewStatic(w *ecs.World, floor ecs.EntityID, source int, typ tile.Type, glyph string, x, y int) ecs.EntityID {
	id := NewElement(w, floor, source, typ, glyph, x, y)
	if typ == tile.Wall {
		w.Add(id, component.TagBlocking{})
	}
	return id
}

func renderOrder(t tile.Type) int {
	switch t {
	case tile.Player:
		return 10
	case tile.Enemy:
		return 5
	case tile.Wall:
		return 0
	}
	return 2
}

func colorOf(t tile.Type) tcell.Color {
	switch {
	case t == tile.Player:
		return tcell.ColorYellow
	case t == tile.Enemy:
		return tcell.ColorRed
	case t == tile.Booster:
		return tcell.ColorGreen
	case t.IsKey(), t.IsDoor():
		return tcell.ColorAqua
	}
	return tcell.ColorWhite
}
