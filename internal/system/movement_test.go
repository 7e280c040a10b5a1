package system

import (
	"testing"

	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/factory"
	"open-tower/internal/gamemap"
	"open-tower/internal/tile"
)

func setupMoveWorld() (*ecs.World, *gamemap.GameMap, ecs.EntityID) {
	w := ecs.NewWorld()
	root := w.CreateEntity()
	floor := factory.NewFloor(w, root, 0)
	gmap := gamemap.New(w, floor, 5, 5)
	player := factory.NewPlayer(w, floor, 1, "@", 2, 2, component.MustStats(100, 10, 10, 0), component.Inventory{})
	return w, gmap, player
}

func TestTryMoveSucceeds(t *testing.T) {
	w, gmap, player := setupMoveWorld()
	result, _ := TryMove(w, gmap, player, 1, 0)
	if result != MoveOK {
		t.Fatalf("expected MoveOK, got %v", result)
	}
	pos := w.Get(player, component.CPosition).(component.Position)
	if pos.X != 3 || pos.Y != 2 {
		t.Fatalf("expected position (3,2), got (%d,%d)", pos.X, pos.Y)
	}
}

func TestTryMoveBlockedByEdge(t *testing.T) {
	w, gmap, player := setupMoveWorld()
	w.Add(player, component.Position{X: 0, Y: 0})
	for _, d := range [][2]int{{-1, 0}, {0, -1}} {
		result, _ := TryMove(w, gmap, player, d[0], d[1])
		if result != MoveBlocked {
			t.Fatalf("move %v: expected MoveBlocked, got %v", d, result)
		}
	}
	pos := w.Get(player, component.CPosition).(component.Position)
	if pos.X != 0 || pos.Y != 0 {
		t.Fatalf("position should be unchanged, got (%d,%d)", pos.X, pos.Y)
	}
}

func TestTryMoveIntoEntityReturnsInteract(t *testing.T) {
	w, gmap, player := setupMoveWorld()
	door := factory.NewStatic(w, gmap.Floor, 2, tile.BlueDoor, "D", 2, 1)

	result, target := TryMove(w, gmap, player, 0, -1)
	if result != MoveInteract {
		t.Fatalf("expected MoveInteract, got %v", result)
	}
	if target != door {
		t.Fatalf("expected target %d, got %d", door, target)
	}
	pos := w.Get(player, component.CPosition).(component.Position)
	if pos.X != 2 || pos.Y != 2 {
		t.Fatalf("player should not move, got (%d,%d)", pos.X, pos.Y)
	}
}

func TestTryMoveBlockedByWall(t *testing.T) {
	w, gmap, player := setupMoveWorld()
	factory.NewStatic(w, gmap.Floor, 2, tile.Wall, "#", 3, 2)

	result, target := TryMove(w, gmap, player, 1, 0)
	if result != MoveBlocked {
		t.Fatalf("expected MoveBlocked, got %v", result)
	}
	if target != ecs.NilEntity {
		t.Fatalf("blocked move should return no target, got %d", target)
	}
	pos := w.Get(player, component.CPosition).(component.Position)
	if pos.X != 2 || pos.Y != 2 {
		t.Fatalf("player should not move, got (%d,%d)", pos.X, pos.Y)
	}
}

func TestTryMoveIgnoresOtherFloors(t *testing.T) {
	w, gmap, player := setupMoveWorld()
	other := factory.NewFloor(w, w.Parent(gmap.Floor), 1)
	factory.NewStatic(w, other, 2, tile.Wall, "#", 3, 2)

	if result, _ := TryMove(w, gmap, player, 1, 0); result != MoveOK {
		t.Fatalf("expected MoveOK, got %v", result)
	}
}

func TestStepCountsSteps(t *testing.T) {
	w, _, player := setupMoveWorld()
	Step(w, player, 2, 3)
	Step(w, player, 2, 4)
	pos := w.Get(player, component.CPosition).(component.Position)
	if pos.Y != 4 {
		t.Fatalf("expected y=4, got %d", pos.Y)
	}
	if s := w.Get(player, component.CStats).(component.Stats); s.StepCount() != 2 {
		t.Fatalf("expected 2 steps, got %d", s.StepCount())
	}
}
