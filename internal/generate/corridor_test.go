package generate

import (
	"math/rand"
	"testing"
)

func openRow(lay *Layout, x1, x2, y int) bool {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if !lay.Open(x, y) {
			return false
		}
	}
	return true
}

func openCol(lay *Layout, y1, y2, x int) bool {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if !lay.Open(x, y) {
			return false
		}
	}
	return true
}

func TestCarveH(t *testing.T) {
	lay := newLayout(20, 20)
	carveH(lay, 8, 3, 5)
	if !openRow(lay, 3, 8, 5) {
		t.Error("carveH(8,3,5) should open x=3..8 at y=5")
	}
	if lay.Open(2, 5) || lay.Open(9, 5) {
		t.Error("cells outside the segment should stay closed")
	}
}

func TestCarveV(t *testing.T) {
	lay := newLayout(20, 20)
	carveV(lay, 9, 2, 4)
	if !openCol(lay, 2, 9, 4) {
		t.Error("carveV(9,2,4) should open y=2..9 at x=4")
	}
	if lay.Open(4, 1) || lay.Open(4, 10) {
		t.Error("cells outside the segment should stay closed")
	}
}

func TestCarveIgnoresOffGrid(t *testing.T) {
	lay := newLayout(5, 5)
	carveH(lay, -3, 10, 2)
	if !openRow(lay, 0, 4, 2) {
		t.Error("on-grid part of the row should be open")
	}
}

func TestCorridorStylesConnectEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		style CorridorStyle
	}{
		{"L", CorridorLShaped},
		{"Z", CorridorZShaped},
		{"straight", CorridorStraight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lay := newLayout(20, 20)
			cfg := &Config{CorridorStyle: tt.style, Rand: rand.New(rand.NewSource(3))}
			carveCorridor(lay, 2, 3, 15, 12, cfg)
			if !lay.Open(2, 3) || !lay.Open(15, 12) {
				t.Fatal("corridor endpoints should be open")
			}
			open := 0
			for y := range lay.Height {
				for x := range lay.Width {
					if lay.Open(x, y) {
						open++
					}
				}
			}
			// Manhattan distance plus the starting cell.
			if want := 13 + 9 + 1; open != want {
				t.Errorf("open cells = %d; want %d", open, want)
			}
		})
	}
}
