package gamemap

import (
	"open-tower/internal/component"
	"open-tower/internal/ecs"
)

// GameMap is the grid of one floor. Terrain is implicit: every in-bounds
// cell is open floor, and whatever stands on it is an entity parented to
// the floor.
type GameMap struct {
	Width, Height int
	Floor         ecs.EntityID
	world         *ecs.World
}

// New wraps floor entity floor of w as a width×height grid.
func New(w *ecs.World, floor ecs.EntityID, width, height int) *GameMap {
	return &GameMap{Width: width, Height: height, Floor: floor, world: w}
}

// InBounds reports whether (x, y) is within the map boundaries.
func (m *GameMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At returns the entity on (x, y), ignoring skip. When several entities
// share a cell (the player on a staircase) the one drawn on top wins.
func (m *GameMap) At(x, y int, skip ecs.EntityID) (ecs.EntityID, bool) {
	best, bestOrder := ecs.NilEntity, -1
	for _, id := range m.world.Children(m.Floor) {
		if id == skip {
			continue
		}
		pos, ok := m.world.Get(id, component.CPosition).(component.Position)
		if !ok || pos.X != x || pos.Y != y {
			continue
		}
		order := 0
		if r, ok := m.world.Get(id, component.CRenderable).(component.Renderable); ok {
			order = r.RenderOrder
		}
		if order > bestOrder {
			best, bestOrder = id, order
		}
	}
	return best, best != ecs.NilEntity
}

// IsBlocked reports whether (x, y) is out of bounds or holds a blocking entity.
func (m *GameMap) IsBlocked(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	for _, id := range m.world.Children(m.Floor) {
		if !m.world.Has(id, component.CTagBlocking) {
			continue
		}
		if pos := m.world.Get(id, component.CPosition).(component.Position); pos.X == x && pos.Y == y {
			return true
		}
	}
	return false
}

// Find returns the first entity on this floor whose kind matches.
func (m *GameMap) Find(match func(component.Kind) bool) (ecs.EntityID, component.Position, bool) {
	for _, id := range m.world.Children(m.Floor) {
		k, ok := m.world.Get(id, component.CKind).(component.Kind)
		if ok && match(k) {
			return id, m.world.Get(id, component.CPosition).(component.Position), true
		}
	}
	return ecs.NilEntity, component.Position{}, false
}
