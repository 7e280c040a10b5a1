package system

import (
	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/gamemap"
)

// MoveResult describes the outcome of a TryMove call.
type MoveResult uint8

const (
	MoveOK       MoveResult = iota // position updated
	MoveBlocked                    // out of bounds or a blocking entity
	MoveInteract                   // bumped an entity; the caller decides what happens
)

// TryMove attempts to move entity id by (dx, dy) on gmap. Cells off the map
// or holding a blocking entity are refused. Empty cells are entered
// directly. Any other occupied cell is not entered: the occupant is
// returned with MoveInteract so the caller can fight, pick up or open it.
func TryMove(w *ecs.World, gmap *gamemap.GameMap, id ecs.EntityID, dx, dy int) (MoveResult, ecs.EntityID) {
	pos, ok := w.Get(id, component.CPosition).(component.Position)
	if !ok {
		return MoveBlocked, ecs.NilEntity
	}
	next := pos.Offset(dx, dy)
	if gmap.IsBlocked(next.X, next.Y) {
		return MoveBlocked, ecs.NilEntity
	}
	if other, found := gmap.At(next.X, next.Y, id); found {
		return MoveInteract, other
	}
	w.Add(id, next)
	return MoveOK, ecs.NilEntity
}

// Step moves id onto (x, y) unconditionally and counts the step when id
// carries stats.
func Step(w *ecs.World, id ecs.EntityID, x, y int) {
	w.Add(id, component.Position{X: x, Y: y})
	if s, ok := w.Get(id, component.CStats).(component.Stats); ok {
		s.IncrementSteps()
		w.Add(id, s)
	}
}
