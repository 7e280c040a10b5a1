package level

import (
	"errors"
	"fmt"

	"open-tower/internal/tile"
)

type cell struct{ floor, x, y int }

// Validate checks that the document can be played: everything Check
// verifies, and exactly one player.
func (d *Document) Validate() error { return d.validate(true) }

// Check verifies a draft: sane dimensions, valid tile definitions, elements
// that resolve and fit on the grid, and placement policies honoured. Drafts
// may still lack a player.
func (d *Document) Check() error { return d.validate(false) }

func (d *Document) validate(playable bool) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if d.Width <= 0 || d.Height <= 0 {
		fail("grid %dx%d must be positive", d.Width, d.Height)
	}
	if len(d.Floors) == 0 {
		fail("level has no floors")
	}
	if _, err := d.Player.Stats(); err != nil {
		fail("player: %v", err)
	}
	if _, err := d.Player.Inventory(); err != nil {
		fail("player: %v", err)
	}

	defs := make(map[int]TileDef, len(d.Tiles))
	for _, t := range d.Tiles {
		if _, dup := defs[t.ID]; dup {
			fail("duplicate tile id %d", t.ID)
			continue
		}
		defs[t.ID] = t
		if err := t.validate(); err != nil {
			fail("tile %d: %v", t.ID, err)
		}
	}

	occupied := make(map[cell]bool)
	perLevel := make(map[int]int)
	players := 0
	for fi, f := range d.Floors {
		perFloor := make(map[int]int)
		for _, e := range f.Elements {
			t, ok := defs[e.Tile]
			if !ok {
				fail("floor %d: element at (%d,%d) references unknown tile %d", fi, e.X, e.Y, e.Tile)
				continue
			}
			if e.X < 0 || e.Y < 0 || e.X >= d.Width || e.Y >= d.Height {
				fail("floor %d: element at (%d,%d) is outside the %dx%d grid", fi, e.X, e.Y, d.Width, d.Height)
				continue
			}
			c := cell{fi, e.X, e.Y}
			if occupied[c] {
				fail("floor %d: cell (%d,%d) holds more than one element", fi, e.X, e.Y)
			}
			occupied[c] = true
			perFloor[t.ID]++
			perLevel[t.ID]++
			if t.Type == tile.Player {
				players++
			}
		}
		for id, n := range perFloor {
			if defs[id].Placement == tile.UniquePerFloor && n > 1 {
				fail("floor %d: tile %d is unique per floor but placed %d times", fi, id, n)
			}
		}
	}
	for id, n := range perLevel {
		if defs[id].Placement == tile.UniquePerLevel && n > 1 {
			fail("tile %d is unique per level but placed %d times", id, n)
		}
	}
	if playable && players != 1 {
		fail("level needs exactly one player, found %d", players)
	}
	return errors.Join(errs...)
}

func (t TileDef) validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("unknown type %d", t.Type)
	}
	switch t.Type {
	case tile.Enemy:
		if t.Enemy == nil {
			return errors.New("enemy tile without stats")
		}
		if t.Booster != nil {
			return errors.New("enemy tile with booster settings")
		}
		e := t.Enemy
		if !inRange(e.Life, MinEnemyLife, MaxEnemyStat) {
			return fmt.Errorf("enemy life %d out of range", e.Life)
		}
		for _, v := range []int{e.Power, e.Defense, e.Experience} {
			if !inRange(v, 0, MaxEnemyStat) {
				return fmt.Errorf("enemy stat %d out of range", v)
			}
		}
	case tile.Booster:
		if t.Booster == nil {
			return errors.New("booster tile without settings")
		}
		if t.Enemy != nil {
			return errors.New("booster tile with enemy stats")
		}
		if !inRange(t.Booster.Amount, MinBoosterStat, MaxBoosterStat) {
			return fmt.Errorf("booster amount %d out of range", t.Booster.Amount)
		}
	default:
		if t.Enemy != nil || t.Booster != nil {
			return fmt.Errorf("static tile %s carries settings", t.Type)
		}
	}
	if t.Sprite < 0 {
		return fmt.Errorf("negative sprite id %d", t.Sprite)
	}
	return nil
}

func inRange(v, lo, hi int) bool { return v >= lo && v <= hi }
