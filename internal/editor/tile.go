package editor

import (
	"fmt"

	"open-tower/internal/level"
	"open-tower/internal/tile"
)

// Default settings for freshly added dynamic tiles.
const (
	defaultEnemyLife       = 10
	defaultEnemyPower      = 1
	defaultEnemyDefense    = 0
	defaultEnemyExperience = 1
	defaultBoosterAmount   = 1
)

// AddableTile is a tile definition in the palette. Elements placed on the
// floors refer back to it by ID, so stat edits apply to every placed copy
// and sprite edits are pushed to them.
type AddableTile struct {
	ed        *Editor
	id        int
	typ       tile.Type
	placement tile.Placement
	spriteID  int

	// enemy settings
	life, power, defense, experience *Field

	// booster settings
	boostedStat   tile.Stat
	boostedAmount *Field
}

func newTile(ed *Editor, id int, typ tile.Type, placement tile.Placement) *AddableTile {
	t := &AddableTile{ed: ed, id: id, typ: typ, placement: placement}
	switch typ {
	case tile.Enemy:
		t.life = newField(defaultEnemyLife, level.MinEnemyLife, level.MaxEnemyStat)
		t.power = newField(defaultEnemyPower, 0, level.MaxEnemyStat)
		t.defense = newField(defaultEnemyDefense, 0, level.MaxEnemyStat)
		t.experience = newField(defaultEnemyExperience, 0, level.MaxEnemyStat)
	case tile.Booster:
		t.boostedAmount = newField(defaultBoosterAmount, level.MinBoosterStat, level.MaxBoosterStat)
	}
	return t
}

func (t *AddableTile) ID() int                   { return t.id }
func (t *AddableTile) TileType() tile.Type       { return t.typ }
func (t *AddableTile) Placement() tile.Placement { return t.placement }
func (t *AddableTile) IsStaticTileType() bool    { return t.typ.IsStatic() }

// Sprite returns the glyph currently shown for the tile.
func (t *AddableTile) Sprite() string {
	g, err := t.ed.sprites.For(t.typ, t.spriteID)
	if err != nil {
		return "?"
	}
	return g
}

// SpriteID returns the selected sprite index of a dynamic tile.
func (t *AddableTile) SpriteID() (int, error) {
	if t.IsStaticTileType() {
		return 0, t.wrongType("a dynamic tile")
	}
	return t.spriteID, nil
}

func (t *AddableTile) EnemyLife() (int, error)  { return t.enemyStat(tile.Life) }
func (t *AddableTile) EnemyPower() (int, error) { return t.enemyStat(tile.Power) }
func (t *AddableTile) EnemyDefense() (int, error) {
	return t.enemyStat(tile.Defense)
}
func (t *AddableTile) EnemyStars() (int, error) { return t.enemyStat(tile.Experience) }

// BoostedStatType returns the stat a booster raises.
func (t *AddableTile) BoostedStatType() (tile.Stat, error) {
	if t.typ != tile.Booster {
		return 0, t.wrongType(tile.Booster.String())
	}
	return t.boostedStat, nil
}

// BoostedAmount returns how much a booster raises its stat by.
func (t *AddableTile) BoostedAmount() (int, error) {
	if t.typ != tile.Booster {
		return 0, t.wrongType(tile.Booster.String())
	}
	return parseField(t.boostedAmount)
}

// IterateBoosterStat switches a booster to the next stat.
func (t *AddableTile) IterateBoosterStat() error {
	if t.typ != tile.Booster {
		return t.wrongType(tile.Booster.String())
	}
	t.boostedStat = t.boostedStat.Next()
	return nil
}

// EnemyField returns the bound input for one enemy stat.
func (t *AddableTile) EnemyField(st tile.Stat) (*Field, error) {
	if t.typ != tile.Enemy {
		return nil, t.wrongType(tile.Enemy.String())
	}
	switch st {
	case tile.Life:
		return t.life, nil
	case tile.Power:
		return t.power, nil
	case tile.Defense:
		return t.defense, nil
	case tile.Experience:
		return t.experience, nil
	}
	return nil, fmt.Errorf("unknown stat %d", st)
}

// BoosterField returns the bound amount input of a booster.
func (t *AddableTile) BoosterField() (*Field, error) {
	if t.typ != tile.Booster {
		return nil, t.wrongType(tile.Booster.String())
	}
	return t.boostedAmount, nil
}

// Fields lists the editable inputs of the tile in display order. Static
// tiles have none.
func (t *AddableTile) Fields() []*Field {
	switch t.typ {
	case tile.Enemy:
		return []*Field{t.life, t.power, t.defense, t.experience}
	case tile.Booster:
		return []*Field{t.boostedAmount}
	}
	return nil
}

// OnLifeChange and its siblings are the change callbacks of the bound
// inputs: they take the new text and clamp it into range.
func (t *AddableTile) OnLifeChange(text string) error    { return t.onEnemyChange(tile.Life, text) }
func (t *AddableTile) OnPowerChange(text string) error   { return t.onEnemyChange(tile.Power, text) }
func (t *AddableTile) OnDefenseChange(text string) error { return t.onEnemyChange(tile.Defense, text) }
func (t *AddableTile) OnExperienceChange(text string) error {
	return t.onEnemyChange(tile.Experience, text)
}

// OnBoosterValueChange clamps the booster amount input.
func (t *AddableTile) OnBoosterValueChange(text string) error {
	f, err := t.BoosterField()
	if err != nil {
		return err
	}
	f.SetText(text)
	f.Clamp()
	return nil
}

// ChangeSprite selects sprite id for a dynamic tile and redraws every
// element placed from it, on every floor.
func (t *AddableTile) ChangeSprite(id int) error {
	if t.IsStaticTileType() {
		return t.wrongType("a dynamic tile")
	}
	glyph, err := t.ed.sprites.For(t.typ, id)
	if err != nil {
		return err
	}
	t.spriteID = id
	n := t.ed.restyle(t, glyph)
	t.ed.log.Debug("sprite changed", "tile", t.id, "sprite", id, "elements", n)
	return nil
}

// Select makes this the palette's current tile.
func (t *AddableTile) Select() { t.ed.lastSelected = t }

// Delete removes the tile from the palette together with every element
// placed from it anywhere in the level.
func (t *AddableTile) Delete() { t.ed.DeleteTile(t) }

func (t *AddableTile) onEnemyChange(st tile.Stat, text string) error {
	f, err := t.EnemyField(st)
	if err != nil {
		return err
	}
	f.SetText(text)
	f.Clamp()
	return nil
}

func (t *AddableTile) enemyStat(st tile.Stat) (int, error) {
	f, err := t.EnemyField(st)
	if err != nil {
		return 0, err
	}
	return parseField(f)
}

func (t *AddableTile) wrongType(want string) error {
	return fmt.Errorf("%w: tile %d is %s, expected %s", ErrWrongTileType, t.id, t.typ, want)
}

func parseField(f *Field) (int, error) {
	v, err := f.Value()
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q: %w", f.Text(), err)
	}
	return v, nil
}
