// Package sprite maps tile types to the glyphs drawn for them.
package sprite

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"

	"open-tower/assets"
	"open-tower/internal/tile"
)

// ErrNoSprite is returned for a sprite index outside the registered set.
var ErrNoSprite = errors.New("no such sprite")

// Registry holds the enemy and booster sprite sets and one sprite for every
// static tile type. It is read-only after loading.
type Registry struct {
	enemies  []string
	boosters []string
	static   map[tile.Type]string
}

type registryFile struct {
	Enemies  []string          `yaml:"enemies"`
	Boosters []string          `yaml:"boosters"`
	Static   map[string]string `yaml:"static"`
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry loaded from the embedded
// default sprite set on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(assets.FS, assets.DefaultSprites)
		if err != nil {
			panic(fmt.Sprintf("embedded sprite set: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}

// Load reads a sprite set from fsys at key.
func Load(fsys fs.FS, key string) (*Registry, error) {
	data, err := fs.ReadFile(fsys, key)
	if err != nil {
		return nil, fmt.Errorf("reading sprites %s: %w", key, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML sprite set.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sprites: %w", err)
	}
	if len(f.Enemies) == 0 || len(f.Boosters) == 0 {
		return nil, errors.New("sprite set needs at least one enemy and one booster sprite")
	}
	reg := &Registry{
		enemies:  f.Enemies,
		boosters: f.Boosters,
		static:   make(map[tile.Type]string, len(f.Static)),
	}
	for name, glyph := range f.Static {
		t, err := tile.ParseType(name)
		if err != nil {
			return nil, fmt.Errorf("static sprite: %w", err)
		}
		if !t.IsStatic() {
			return nil, fmt.Errorf("static sprite given for dynamic type %s", t)
		}
		reg.static[t] = glyph
	}
	for _, t := range tile.Types() {
		if t.IsStatic() && reg.static[t] == "" {
			return nil, fmt.Errorf("missing sprite for %s", t)
		}
	}
	return reg, nil
}

// Enemies returns the enemy sprite set.
func (r *Registry) Enemies() []string { return append([]string(nil), r.enemies...) }

// Boosters returns the booster sprite set.
func (r *Registry) Boosters() []string { return append([]string(nil), r.boosters...) }

// Enemy returns enemy sprite id.
func (r *Registry) Enemy(id int) (string, error) {
	if id < 0 || id >= len(r.enemies) {
		return "", fmt.Errorf("enemy sprite %d: %w", id, ErrNoSprite)
	}
	return r.enemies[id], nil
}

// Booster returns booster sprite id.
func (r *Registry) Booster(id int) (string, error) {
	if id < 0 || id >= len(r.boosters) {
		return "", fmt.Errorf("booster sprite %d: %w", id, ErrNoSprite)
	}
	return r.boosters[id], nil
}

// Static returns the sprite for a static tile type.
func (r *Registry) Static(t tile.Type) (string, error) {
	g, ok := r.static[t]
	if !ok {
		return "", fmt.Errorf("%s: %w", t, ErrNoSprite)
	}
	return g, nil
}

// Count returns how many sprites a type can choose from: the set size for
// enemies and boosters, one for static types.
func (r *Registry) Count(t tile.Type) int {
	switch t {
	case tile.Enemy:
		return len(r.enemies)
	case tile.Booster:
		return len(r.boosters)
	}
	return 1
}

// For resolves the sprite of any tile type; id is ignored for static types.
func (r *Registry) For(t tile.Type, id int) (string, error) {
	switch t {
	case tile.Enemy:
		return r.Enemy(id)
	case tile.Booster:
		return r.Booster(id)
	}
	return r.Static(t)
}
