// Package editor implements the level editor model: a palette of tile
// definitions, a stack of floors, and the placement rules that decide what
// happens to existing elements when a new one is placed.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/factory"
	"open-tower/internal/level"
	"open-tower/internal/sprite"
	"open-tower/internal/tile"
)

var (
	ErrWrongTileType = errors.New("wrong tile type")
	ErrNoSelection   = errors.New("no tile selected")
	ErrOutOfBounds   = errors.New("cell out of bounds")
	ErrUnknownTile   = errors.New("unknown tile")
	ErrNoSuchFloor   = errors.New("no such floor")
	ErrLastFloor     = errors.New("cannot remove the last floor")
)

// Editor holds the level being designed. Floors are entities under a level
// root; elements are children of the floor they sit on.
type Editor struct {
	name          string
	width, height int
	player        level.PlayerStart

	world  *ecs.World
	root   ecs.EntityID
	floors []ecs.EntityID
	floor  int

	tiles        []*AddableTile
	lastSelected *AddableTile
	nextTileID   int

	sprites *sprite.Registry
	log     *slog.Logger
}

// New creates an editor with one empty floor and the default palette: one
// tile per static type.
func New(name string, width, height int, sprites *sprite.Registry, logger *slog.Logger) (*Editor, error) {
	ed, err := newEditor(name, width, height, sprites, logger)
	if err != nil {
		return nil, err
	}
	for _, t := range tile.Types() {
		if t.IsStatic() {
			ed.addTile(t, tile.DefaultPlacement(t))
		}
	}
	ed.AddFloor()
	return ed, nil
}

func newEditor(name string, width, height int, sprites *sprite.Registry, logger *slog.Logger) (*Editor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d must be positive", width, height)
	}
	if sprites == nil {
		sprites = sprite.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := ecs.NewWorld()
	return &Editor{
		name:       name,
		width:      width,
		height:     height,
		player:     level.DefaultPlayer(),
		world:      w,
		root:       w.CreateEntity(),
		nextTileID: 1,
		sprites:    sprites,
		log:        logger.With("level", name),
	}, nil
}

func (ed *Editor) Name() string               { return ed.name }
func (ed *Editor) SetName(name string)        { ed.name = name }
func (ed *Editor) Size() (int, int)           { return ed.width, ed.height }
func (ed *Editor) World() *ecs.World          { return ed.world }
func (ed *Editor) Sprites() *sprite.Registry  { return ed.sprites }
func (ed *Editor) Player() level.PlayerStart  { return ed.player }
func (ed *Editor) LastSelected() *AddableTile { return ed.lastSelected }

// SetPlayer replaces the starting loadout after validating it.
func (ed *Editor) SetPlayer(p level.PlayerStart) error {
	if _, err := p.Stats(); err != nil {
		return err
	}
	if _, err := p.Inventory(); err != nil {
		return err
	}
	ed.player = p
	return nil
}

// ─── palette ────────────────────────────────────────────────────────────────

// Tiles returns the palette in display order.
func (ed *Editor) Tiles() []*AddableTile { return slices.Clone(ed.tiles) }

// Tile returns the palette entry with the given ID.
func (ed *Editor) Tile(id int) (*AddableTile, bool) {
	for _, t := range ed.tiles {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// Select sets the palette's current tile; nil clears the selection.
func (ed *Editor) Select(t *AddableTile) { ed.lastSelected = t }

// AddEnemy appends a new enemy definition to the palette.
func (ed *Editor) AddEnemy() *AddableTile { return ed.addTile(tile.Enemy, tile.NoRestriction) }

// AddBooster appends a new booster definition to the palette.
func (ed *Editor) AddBooster() *AddableTile { return ed.addTile(tile.Booster, tile.NoRestriction) }

func (ed *Editor) addTile(typ tile.Type, placement tile.Placement) *AddableTile {
	t := newTile(ed, ed.nextTileID, typ, placement)
	ed.nextTileID++
	ed.tiles = append(ed.tiles, t)
	return t
}

// DeleteTile removes t from the palette and destroys every element placed
// from it on any floor. Deleting a tile that is not in the palette is a
// no-op.
func (ed *Editor) DeleteTile(t *AddableTile) {
	i := slices.Index(ed.tiles, t)
	if i < 0 {
		return
	}
	ed.tiles = slices.Delete(ed.tiles, i, i+1)
	if ed.lastSelected == t {
		ed.lastSelected = nil
	}
	removed := ed.destroyAll(ed.ElementsInLevel(t))
	ed.log.Info("tile deleted", "tile", t.id, "type", t.typ, "elements", removed)
}

// ─── floors ─────────────────────────────────────────────────────────────────

// FloorCount returns the number of floors.
func (ed *Editor) FloorCount() int { return len(ed.floors) }

// SelectedFloor returns the index of the floor being edited.
func (ed *Editor) SelectedFloor() int { return ed.floor }

// FloorEntity returns the entity of floor i.
func (ed *Editor) FloorEntity(i int) (ecs.EntityID, error) {
	if i < 0 || i >= len(ed.floors) {
		return ecs.NilEntity, fmt.Errorf("floor %d: %w", i, ErrNoSuchFloor)
	}
	return ed.floors[i], nil
}

// SelectFloor switches editing to floor i.
func (ed *Editor) SelectFloor(i int) error {
	if _, err := ed.FloorEntity(i); err != nil {
		return err
	}
	ed.floor = i
	return nil
}

// AddFloor appends an empty floor, selects it, and returns its index.
func (ed *Editor) AddFloor() int {
	id := factory.NewFloor(ed.world, ed.root, len(ed.floors))
	ed.floors = append(ed.floors, id)
	ed.renumberFloors()
	ed.floor = len(ed.floors) - 1
	return ed.floor
}

// RemoveFloor destroys floor i with everything placed on it. The selected
// floor stays selected unless it is the one removed.
func (ed *Editor) RemoveFloor(i int) error {
	id, err := ed.FloorEntity(i)
	if err != nil {
		return err
	}
	if len(ed.floors) == 1 {
		return ErrLastFloor
	}
	ed.world.DestroyEntity(id)
	ed.floors = slices.Delete(ed.floors, i, i+1)
	ed.renumberFloors()
	if i < ed.floor {
		ed.floor--
	} else if ed.floor >= len(ed.floors) {
		ed.floor = len(ed.floors) - 1
	}
	return nil
}

func (ed *Editor) renumberFloors() {
	for i, id := range ed.floors {
		ed.world.Add(id, component.Floor{Index: i})
	}
}

// ─── elements ───────────────────────────────────────────────────────────────

// ElementsInLevel returns every element placed from t on any floor.
func (ed *Editor) ElementsInLevel(t *AddableTile) []ecs.EntityID {
	return ed.elementsUnder(ed.root, t)
}

// ElementsInFloor returns the elements placed from t on floor i.
func (ed *Editor) ElementsInFloor(t *AddableTile, i int) []ecs.EntityID {
	id, err := ed.FloorEntity(i)
	if err != nil {
		return nil
	}
	return ed.elementsUnder(id, t)
}

func (ed *Editor) elementsUnder(root ecs.EntityID, t *AddableTile) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range ed.world.QueryUnder(root, component.CElement) {
		if ed.world.Get(id, component.CElement).(component.Element).IsSource(t.id) {
			out = append(out, id)
		}
	}
	return out
}

// ElementAt returns the element on cell (x, y) of floor i.
func (ed *Editor) ElementAt(i, x, y int) (ecs.EntityID, bool) {
	id, err := ed.FloorEntity(i)
	if err != nil {
		return ecs.NilEntity, false
	}
	for _, e := range ed.world.Children(id) {
		pos, ok := ed.world.Get(e, component.CPosition).(component.Position)
		if ok && pos.X == x && pos.Y == y {
			return e, true
		}
	}
	return ecs.NilEntity, false
}

// SourceOf returns the tile an element was placed from.
func (ed *Editor) SourceOf(e ecs.EntityID) (*AddableTile, bool) {
	el, ok := ed.world.Get(e, component.CElement).(component.Element)
	if !ok {
		return nil, false
	}
	return ed.Tile(el.Source)
}

// Place puts the selected tile on cell (x, y) of the current floor.
func (ed *Editor) Place(x, y int) (ecs.EntityID, error) {
	if ed.lastSelected == nil {
		return ecs.NilEntity, ErrNoSelection
	}
	return ed.CreateElement(ed.lastSelected, x, y)
}

// CreateElement places t on cell (x, y) of the current floor. Before
// placing, the tile's placement policy clears older copies: on this floor
// for UniquePerFloor, on every floor for UniquePerLevel. Whatever occupied
// the target cell is replaced.
func (ed *Editor) CreateElement(t *AddableTile, x, y int) (ecs.EntityID, error) {
	if !slices.Contains(ed.tiles, t) {
		return ecs.NilEntity, fmt.Errorf("tile %d: %w", t.id, ErrUnknownTile)
	}
	if x < 0 || y < 0 || x >= ed.width || y >= ed.height {
		return ecs.NilEntity, fmt.Errorf("(%d,%d): %w", x, y, ErrOutOfBounds)
	}
	switch t.placement {
	case tile.NoRestriction:
	case tile.UniquePerFloor:
		ed.destroyAll(ed.ElementsInFloor(t, ed.floor))
	case tile.UniquePerLevel:
		ed.destroyAll(ed.ElementsInLevel(t))
	}
	ed.Erase(x, y)
	return ed.spawn(t, ed.floors[ed.floor], x, y), nil
}

// Erase removes the element on cell (x, y) of the current floor.
func (ed *Editor) Erase(x, y int) bool {
	e, ok := ed.ElementAt(ed.floor, x, y)
	if ok {
		ed.world.DestroyEntity(e)
	}
	return ok
}

func (ed *Editor) spawn(t *AddableTile, floor ecs.EntityID, x, y int) ecs.EntityID {
	return factory.NewElement(ed.world, floor, t.id, t.typ, t.Sprite(), x, y)
}

// restyle pushes glyph onto every element of t and returns how many changed.
func (ed *Editor) restyle(t *AddableTile, glyph string) int {
	elems := ed.ElementsInLevel(t)
	for _, e := range elems {
		r := ed.world.Get(e, component.CRenderable).(component.Renderable)
		r.Glyph = glyph
		ed.world.Add(e, r)
	}
	return len(elems)
}

func (ed *Editor) destroyAll(ids []ecs.EntityID) int {
	for _, id := range ids {
		ed.world.DestroyEntity(id)
	}
	return len(ids)
}
