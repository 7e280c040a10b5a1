// Package generate lays out walled floors for the editor. A binary space
// partition splits the grid into leaves, each leaf gets a room, and
// corridors join the rooms of sibling leaves. Every cell that is neither
// room nor corridor is wall.
package generate

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrBadConfig is returned for a Config that cannot produce a layout.
var ErrBadConfig = errors.New("bad generator config")

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
	CorridorStraight
)

// Rect is an inclusive cell rectangle.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Center returns the middle cell of r.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Contains reports whether (x, y) lies in r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// Config drives generation for one floor.
type Config struct {
	Width, Height int
	MinLeafSize   int
	MaxLeafSize   int
	MinRoomSize   int
	RoomPadding   int
	CorridorStyle CorridorStyle
	Rand          *rand.Rand
}

// DefaultConfig returns settings suited to tower floors of the given size.
func DefaultConfig(width, height int, seed int64) Config {
	return Config{
		Width:       width,
		Height:      height,
		MinLeafSize: 4,
		MaxLeafSize: 7,
		MinRoomSize: 2,
		RoomPadding: 1,
		Rand:        rand.New(rand.NewSource(seed)),
	}
}

func (c *Config) validate() error {
	switch {
	case c.Width < 3 || c.Height < 3:
		return fmt.Errorf("%w: grid %dx%d is smaller than 3x3", ErrBadConfig, c.Width, c.Height)
	case c.MinRoomSize < 1:
		return fmt.Errorf("%w: min room size %d", ErrBadConfig, c.MinRoomSize)
	case c.MinLeafSize < c.MinRoomSize:
		return fmt.Errorf("%w: min leaf size %d below min room size %d", ErrBadConfig, c.MinLeafSize, c.MinRoomSize)
	case c.MaxLeafSize < c.MinLeafSize:
		return fmt.Errorf("%w: max leaf size %d below min leaf size %d", ErrBadConfig, c.MaxLeafSize, c.MinLeafSize)
	case c.RoomPadding < 0:
		return fmt.Errorf("%w: negative room padding", ErrBadConfig)
	case c.Rand == nil:
		return fmt.Errorf("%w: no random source", ErrBadConfig)
	}
	return nil
}

// Layout is the result of one generation run.
type Layout struct {
	Width, Height int
	Rooms         []Rect
	open          []bool
}

func newLayout(w, h int) *Layout {
	return &Layout{Width: w, Height: h, open: make([]bool, w*h)}
}

// InBounds reports whether (x, y) is on the grid.
func (l *Layout) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// Open reports whether (x, y) was carved out. Cells off the grid are closed.
func (l *Layout) Open(x, y int) bool {
	return l.InBounds(x, y) && l.open[y*l.Width+x]
}

func (l *Layout) carve(x, y int) {
	if l.InBounds(x, y) {
		l.open[y*l.Width+x] = true
	}
}

// Walls returns every closed cell in row-major order.
func (l *Layout) Walls() [][2]int {
	var out [][2]int
	for y := range l.Height {
		for x := range l.Width {
			if !l.open[y*l.Width+x] {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}

// bspLeaf is a node in the BSP tree.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *Rect
}

// split divides the leaf into two children, returning false when leaf is too small.
func (l *bspLeaf) split(cfg *Config) bool {
	if l.left != nil || l.right != nil {
		return false
	}
	splitH := cfg.Rand.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	size := l.H
	if !splitH {
		size = l.W
	}
	if size < cfg.MinLeafSize*2 {
		return false
	}
	at := cfg.MinLeafSize + cfg.Rand.Intn(size-2*cfg.MinLeafSize+1)

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: at}
		l.right = &bspLeaf{X: l.X, Y: l.Y + at, W: l.W, H: l.H - at}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: at, H: l.H}
		l.right = &bspLeaf{X: l.X + at, Y: l.Y, W: l.W - at, H: l.H}
	}
	return true
}

// createRooms carves a room inside every terminal leaf that has space for
// one. Rooms keep off the outer ring of the grid.
func (l *bspLeaf) createRooms(lay *Layout, cfg *Config) {
	if l.left != nil || l.right != nil {
		l.left.createRooms(lay, cfg)
		l.right.createRooms(lay, cfg)
		return
	}
	x1 := max(l.X+cfg.RoomPadding, 1)
	y1 := max(l.Y+cfg.RoomPadding, 1)
	x2 := min(l.X+l.W-1-cfg.RoomPadding, lay.Width-2)
	y2 := min(l.Y+l.H-1-cfg.RoomPadding, lay.Height-2)
	availW, availH := x2-x1+1, y2-y1+1
	if availW < cfg.MinRoomSize || availH < cfg.MinRoomSize {
		return
	}

	rw := cfg.MinRoomSize + cfg.Rand.Intn(availW-cfg.MinRoomSize+1)
	rh := cfg.MinRoomSize + cfg.Rand.Intn(availH-cfg.MinRoomSize+1)
	rx := x1 + cfg.Rand.Intn(availW-rw+1)
	ry := y1 + cfg.Rand.Intn(availH-rh+1)

	room := Rect{X1: rx, Y1: ry, X2: rx + rw - 1, Y2: ry + rh - 1}
	l.room = &room
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			lay.carve(x, y)
		}
	}
	lay.Rooms = append(lay.Rooms, room)
}

// getRoom returns any room in the subtree, or nil when it has none.
func (l *bspLeaf) getRoom() *Rect {
	if l.room != nil {
		return l.room
	}
	if l.left != nil {
		if r := l.left.getRoom(); r != nil {
			return r
		}
	}
	if l.right != nil {
		return l.right.getRoom()
	}
	return nil
}

// connectChildren carves corridors between the two children of a split leaf.
func (l *bspLeaf) connectChildren(lay *Layout, cfg *Config) {
	if l.left == nil || l.right == nil {
		return
	}
	l.left.connectChildren(lay, cfg)
	l.right.connectChildren(lay, cfg)

	lRoom := l.left.getRoom()
	rRoom := l.right.getRoom()
	if lRoom == nil || rRoom == nil {
		return
	}
	lCX, lCY := lRoom.Center()
	rCX, rCY := rRoom.Center()
	carveCorridor(lay, lCX, lCY, rCX, rCY, cfg)
}

// Generate runs BSP generation. Every open cell of the result is reachable
// from every other one.
func Generate(cfg Config) (*Layout, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	lay := newLayout(cfg.Width, cfg.Height)
	root := &bspLeaf{W: cfg.Width, H: cfg.Height}

	leaves := []*bspLeaf{root}
	for splitAny := true; splitAny; {
		splitAny = false
		var next []*bspLeaf
		for _, leaf := range leaves {
			if leaf.left != nil {
				next = append(next, leaf.left, leaf.right)
				continue
			}
			if leaf.W > cfg.MaxLeafSize || leaf.H > cfg.MaxLeafSize || cfg.Rand.Float64() > 0.25 {
				if leaf.split(&cfg) {
					next = append(next, leaf.left, leaf.right)
					splitAny = true
					continue
				}
			}
			next = append(next, leaf)
		}
		leaves = next
	}

	root.createRooms(lay, &cfg)
	root.connectChildren(lay, &cfg)
	return lay, nil
}
