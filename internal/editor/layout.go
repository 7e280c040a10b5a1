package editor

import (
	"errors"
	"fmt"

	"open-tower/internal/component"
	"open-tower/internal/generate"
	"open-tower/internal/tile"
)

var (
	ErrNoWallTile = errors.New("no wall tile in palette")
	ErrLayoutSize = errors.New("layout size does not match level")
)

// ApplyLayout walls in the current floor from lay. Every closed cell that
// is empty gets the palette's first wall tile and walls standing on open
// cells are removed. Other elements stay where they are.
func (ed *Editor) ApplyLayout(lay *generate.Layout) (placed, removed int, err error) {
	if lay.Width != ed.width || lay.Height != ed.height {
		return 0, 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrLayoutSize, lay.Width, lay.Height, ed.width, ed.height)
	}
	var wall *AddableTile
	for _, t := range ed.tiles {
		if t.typ == tile.Wall {
			wall = t
			break
		}
	}
	if wall == nil {
		return 0, 0, ErrNoWallTile
	}

	floor := ed.floors[ed.floor]
	for y := range ed.height {
		for x := range ed.width {
			e, occupied := ed.ElementAt(ed.floor, x, y)
			switch {
			case !lay.Open(x, y) && !occupied:
				ed.spawn(wall, floor, x, y)
				placed++
			case lay.Open(x, y) && occupied && ed.world.Get(e, component.CKind).(component.Kind).Tile == tile.Wall:
				ed.world.DestroyEntity(e)
				removed++
			}
		}
	}
	ed.log.Debug("layout applied", "floor", ed.floor, "placed", placed, "removed", removed)
	return placed, removed, nil
}

// GenerateLayout builds a fresh room-and-corridor layout for this level's
// size and applies it to the current floor.
func (ed *Editor) GenerateLayout(seed int64) (placed, removed int, err error) {
	lay, err := generate.Generate(generate.DefaultConfig(ed.width, ed.height, seed))
	if err != nil {
		return 0, 0, err
	}
	return ed.ApplyLayout(lay)
}
