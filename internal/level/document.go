// Package level defines the on-disk description of a designed level and
// checks it for consistency before it is stored or played.
package level

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"open-tower/internal/component"
	"open-tower/internal/tile"
)

// Stat ranges accepted by the editor and by Validate.
const (
	MaxEnemyStat   = 99999
	MaxBoosterStat = 9999
	MinEnemyLife   = 1
	MinBoosterStat = 1
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid level")

// Document is a complete level: tile definitions and the elements placed
// from them on each floor.
type Document struct {
	Name   string      `yaml:"name" json:"name"`
	Width  int         `yaml:"width" json:"width"`
	Height int         `yaml:"height" json:"height"`
	Player PlayerStart `yaml:"player" json:"player"`
	Tiles  []TileDef   `yaml:"tiles" json:"tiles"`
	Floors []FloorDef  `yaml:"floors" json:"floors"`
}

// PlayerStart holds the player's stats and keys at the start of a run.
type PlayerStart struct {
	Life       int `yaml:"life" json:"life"`
	Power      int `yaml:"power" json:"power"`
	Defense    int `yaml:"defense" json:"defense"`
	Experience int `yaml:"experience" json:"experience"`
	Yellow     int `yaml:"yellow" json:"yellow"`
	Blue       int `yaml:"blue" json:"blue"`
	Red        int `yaml:"red" json:"red"`
}

// DefaultPlayer is the starting loadout of a new level.
func DefaultPlayer() PlayerStart {
	return PlayerStart{Life: 1000, Power: 10, Defense: 10}
}

// Stats builds the validated stats component.
func (p PlayerStart) Stats() (component.Stats, error) {
	return component.NewStats(p.Life, p.Power, p.Defense, p.Experience)
}

// Inventory builds the validated key inventory.
func (p PlayerStart) Inventory() (component.Inventory, error) {
	return component.NewInventory(p.Yellow, p.Blue, p.Red)
}

// TileDef is one addable tile.
type TileDef struct {
	ID        int            `yaml:"id" json:"id"`
	Type      tile.Type      `yaml:"type" json:"type"`
	Placement tile.Placement `yaml:"placement" json:"placement"`
	Sprite    int            `yaml:"sprite,omitempty" json:"sprite,omitempty"`
	Enemy     *EnemyDef      `yaml:"enemy,omitempty" json:"enemy,omitempty"`
	Booster   *BoosterDef    `yaml:"booster,omitempty" json:"booster,omitempty"`
}

// EnemyDef holds the stats of an enemy tile.
type EnemyDef struct {
	Life       int `yaml:"life" json:"life"`
	Power      int `yaml:"power" json:"power"`
	Defense    int `yaml:"defense" json:"defense"`
	Experience int `yaml:"experience" json:"experience"`
}

// BoosterDef holds the stat and amount a booster tile grants.
type BoosterDef struct {
	Stat   tile.Stat `yaml:"stat" json:"stat"`
	Amount int       `yaml:"amount" json:"amount"`
}

// FloorDef lists the elements placed on one floor.
type FloorDef struct {
	Elements []ElementDef `yaml:"elements" json:"elements"`
}

// ElementDef places tile Tile at (X, Y).
type ElementDef struct {
	Tile int `yaml:"tile" json:"tile"`
	X    int `yaml:"x" json:"x"`
	Y    int `yaml:"y" json:"y"`
}

// Tile returns the definition with the given ID.
func (d *Document) Tile(id int) (TileDef, bool) {
	for _, t := range d.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return TileDef{}, false
}

// PlayerLocation returns the floor and cell of the player element.
func (d *Document) PlayerLocation() (floor, x, y int, ok bool) {
	for fi, f := range d.Floors {
		for _, e := range f.Elements {
			if t, found := d.Tile(e.Tile); found && t.Type == tile.Player {
				return fi, e.X, e.Y, true
			}
		}
	}
	return 0, 0, 0, false
}

// Decode reads a YAML document. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding level: %w", err)
	}
	return &d, nil
}

// Encode writes d as YAML.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding level %q: %w", d.Name, err)
	}
	return enc.Close()
}

// Load decodes the document stored in fsys at key.
func Load(fsys fs.FS, key string) (*Document, error) {
	f, err := fsys.Open(key)
	if err != nil {
		return nil, fmt.Errorf("opening level %s: %w", key, err)
	}
	defer f.Close()
	return Decode(f)
}
