package editor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-tower/internal/component"
	"open-tower/internal/generate"
	"open-tower/internal/tile"
)

func layoutFor(t *testing.T, w, h int, seed int64) *generate.Layout {
	t.Helper()
	lay, err := generate.Generate(generate.Config{
		Width: w, Height: h,
		MinLeafSize: 3, MaxLeafSize: 5, MinRoomSize: 1, RoomPadding: 0,
		Rand: rand.New(rand.NewSource(seed)),
	})
	require.NoError(t, err)
	return lay
}

func TestApplyLayoutWallsClosedCells(t *testing.T) {
	ed := newTestEditor(t)
	player := paletteTile(t, ed, tile.Player)
	lay := layoutFor(t, 5, 5, 1)
	require.False(t, lay.Open(0, 0), "outer ring is always closed")
	place(t, ed, player, 0, 0)

	placed, removed, err := ed.ApplyLayout(lay)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, len(lay.Walls())-1, placed, "the player cell is not walled over")

	e, ok := ed.ElementAt(0, 0, 0)
	require.True(t, ok)
	assert.Equal(t, tile.Player, ed.World().Get(e, component.CKind).(component.Kind).Tile)

	for y := range 5 {
		for x := range 5 {
			_, occupied := ed.ElementAt(0, x, y)
			if x == 0 && y == 0 {
				continue
			}
			assert.Equal(t, !lay.Open(x, y), occupied, "cell (%d,%d)", x, y)
		}
	}
}

func TestApplyLayoutClearsWallsOnOpenCells(t *testing.T) {
	ed := newTestEditor(t)
	wall := paletteTile(t, ed, tile.Wall)
	for y := range 5 {
		for x := range 5 {
			place(t, ed, wall, x, y)
		}
	}
	lay := layoutFor(t, 5, 5, 2)
	placed, removed, err := ed.ApplyLayout(lay)
	require.NoError(t, err)
	assert.Zero(t, placed)
	assert.Equal(t, 25-len(lay.Walls()), removed)
	assert.Len(t, ed.ElementsInFloor(wall, 0), len(lay.Walls()))
}

func TestApplyLayoutOnlyTouchesCurrentFloor(t *testing.T) {
	ed := newTestEditor(t)
	wall := paletteTile(t, ed, tile.Wall)
	ed.AddFloor()
	require.NoError(t, ed.SelectFloor(1))
	_, _, err := ed.ApplyLayout(layoutFor(t, 5, 5, 3))
	require.NoError(t, err)
	assert.Empty(t, ed.ElementsInFloor(wall, 0))
	assert.NotEmpty(t, ed.ElementsInFloor(wall, 1))
}

func TestApplyLayoutErrors(t *testing.T) {
	ed := newTestEditor(t)
	_, _, err := ed.ApplyLayout(layoutFor(t, 6, 5, 1))
	assert.ErrorIs(t, err, ErrLayoutSize)

	ed.DeleteTile(paletteTile(t, ed, tile.Wall))
	_, _, err = ed.ApplyLayout(layoutFor(t, 5, 5, 1))
	assert.ErrorIs(t, err, ErrNoWallTile)
}

func TestGenerateLayoutUsesLevelSize(t *testing.T) {
	ed, err := New("big", 11, 11, nil, nil)
	require.NoError(t, err)
	placed, _, err := ed.GenerateLayout(9)
	require.NoError(t, err)
	assert.Positive(t, placed)
	assert.Less(t, placed, 11*11)
}
