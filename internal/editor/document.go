package editor

import (
	"fmt"
	"log/slog"

	"open-tower/internal/component"
	"open-tower/internal/level"
	"open-tower/internal/sprite"
	"open-tower/internal/tile"
)

// Export snapshots the editor into a level document. Field values are read
// as typed, so a field holding unparsable text fails the export.
func (ed *Editor) Export() (*level.Document, error) {
	doc := &level.Document{
		Name:   ed.name,
		Width:  ed.width,
		Height: ed.height,
		Player: ed.player,
	}
	for _, t := range ed.tiles {
		def, err := t.definition()
		if err != nil {
			return nil, err
		}
		doc.Tiles = append(doc.Tiles, def)
	}
	for _, floor := range ed.floors {
		var fd level.FloorDef
		for _, e := range ed.world.Children(floor) {
			pos := ed.world.Get(e, component.CPosition).(component.Position)
			el := ed.world.Get(e, component.CElement).(component.Element)
			fd.Elements = append(fd.Elements, level.ElementDef{Tile: el.Source, X: pos.X, Y: pos.Y})
		}
		doc.Floors = append(doc.Floors, fd)
	}
	return doc, nil
}

func (t *AddableTile) definition() (level.TileDef, error) {
	def := level.TileDef{ID: t.id, Type: t.typ, Placement: t.placement, Sprite: t.spriteID}
	switch t.typ {
	case tile.Enemy:
		var vals [4]int
		for i, f := range t.Fields() {
			v, err := parseField(f)
			if err != nil {
				return def, fmt.Errorf("tile %d: %w", t.id, err)
			}
			vals[i] = v
		}
		def.Enemy = &level.EnemyDef{Life: vals[0], Power: vals[1], Defense: vals[2], Experience: vals[3]}
	case tile.Booster:
		amount, err := t.BoostedAmount()
		if err != nil {
			return def, fmt.Errorf("tile %d: %w", t.id, err)
		}
		def.Booster = &level.BoosterDef{Stat: t.boostedStat, Amount: amount}
	}
	return def, nil
}

// FromDocument opens a stored level for editing. The document must pass
// level.Document.Check; elements are recreated without re-running placement
// rules.
func FromDocument(doc *level.Document, sprites *sprite.Registry, logger *slog.Logger) (*Editor, error) {
	if err := doc.Check(); err != nil {
		return nil, err
	}
	ed, err := newEditor(doc.Name, doc.Width, doc.Height, sprites, logger)
	if err != nil {
		return nil, err
	}
	if err := ed.SetPlayer(doc.Player); err != nil {
		return nil, err
	}
	for _, def := range doc.Tiles {
		t := newTile(ed, def.ID, def.Type, def.Placement)
		if !def.Type.IsStatic() {
			if def.Sprite >= ed.sprites.Count(def.Type) {
				return nil, fmt.Errorf("tile %d: %w", def.ID, sprite.ErrNoSprite)
			}
			t.spriteID = def.Sprite
		}
		switch def.Type {
		case tile.Enemy:
			t.life.SetValue(def.Enemy.Life)
			t.power.SetValue(def.Enemy.Power)
			t.defense.SetValue(def.Enemy.Defense)
			t.experience.SetValue(def.Enemy.Experience)
		case tile.Booster:
			t.boostedStat = def.Booster.Stat
			t.boostedAmount.SetValue(def.Booster.Amount)
		}
		ed.tiles = append(ed.tiles, t)
		ed.nextTileID = max(ed.nextTileID, def.ID+1)
	}
	for _, fd := range doc.Floors {
		i := ed.AddFloor()
		for _, e := range fd.Elements {
			t, _ := ed.Tile(e.Tile)
			ed.spawn(t, ed.floors[i], e.X, e.Y)
		}
	}
	ed.floor = 0
	ed.log.Info("level opened", "floors", len(doc.Floors), "tiles", len(doc.Tiles))
	return ed, nil
}
