package editor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-tower/assets"
	"open-tower/internal/level"
	"open-tower/internal/sprite"
	"open-tower/internal/tile"
)

func TestExportDescribesEditor(t *testing.T) {
	ed := newTestEditor(t)
	player := paletteTile(t, ed, tile.Player)
	enemy := ed.AddEnemy()
	require.NoError(t, enemy.OnLifeChange("30"))
	require.NoError(t, enemy.OnPowerChange("7"))
	require.NoError(t, enemy.ChangeSprite(2))
	booster := ed.AddBooster()
	require.NoError(t, booster.IterateBoosterStat())
	require.NoError(t, booster.OnBoosterValueChange("5"))

	place(t, ed, player, 0, 0)
	place(t, ed, enemy, 1, 0)
	ed.AddFloor()
	place(t, ed, booster, 2, 2)

	doc, err := ed.Export()
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, "test", doc.Name)
	require.Len(t, doc.Floors, 2)
	assert.Equal(t, []level.ElementDef{{Tile: player.ID(), X: 0, Y: 0}, {Tile: enemy.ID(), X: 1, Y: 0}}, doc.Floors[0].Elements)
	assert.Equal(t, []level.ElementDef{{Tile: booster.ID(), X: 2, Y: 2}}, doc.Floors[1].Elements)

	ed2, ok := doc.Tile(enemy.ID())
	require.True(t, ok)
	assert.Equal(t, &level.EnemyDef{Life: 30, Power: 7, Defense: 0, Experience: 1}, ed2.Enemy)
	assert.Equal(t, 2, ed2.Sprite)

	bd, ok := doc.Tile(booster.ID())
	require.True(t, ok)
	assert.Equal(t, &level.BoosterDef{Stat: tile.Power, Amount: 5}, bd.Booster)
}

func TestFromDocumentRoundTrip(t *testing.T) {
	doc, err := level.Load(assets.FS, assets.TutorialLevel)
	require.NoError(t, err)

	ed, err := FromDocument(doc, sprite.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, len(doc.Floors), ed.FloorCount())
	assert.Equal(t, 0, ed.SelectedFloor())

	back, err := ed.Export()
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	// New tiles never reuse an ID from the document.
	fresh := ed.AddEnemy()
	for _, def := range doc.Tiles {
		assert.NotEqual(t, def.ID, fresh.ID())
	}
}

func TestFromDocumentKeepsPlacementRulesForNewElements(t *testing.T) {
	doc, err := level.Load(assets.FS, assets.TutorialLevel)
	require.NoError(t, err)
	ed, err := FromDocument(doc, nil, nil)
	require.NoError(t, err)

	player := paletteTile(t, ed, tile.Player)
	require.NoError(t, ed.SelectFloor(1))
	place(t, ed, player, 3, 3)

	assert.Empty(t, ed.ElementsInFloor(player, 0))
	assert.Len(t, ed.ElementsInFloor(player, 1), 1)
}

func TestFromDocumentRejectsBadDocument(t *testing.T) {
	doc, err := level.Load(assets.FS, assets.TutorialLevel)
	require.NoError(t, err)
	doc.Tiles[11].Sprite = 500
	_, err = FromDocument(doc, nil, nil)
	assert.ErrorIs(t, err, sprite.ErrNoSprite)

	doc.Tiles[11].Sprite = 0
	doc.Width = 0
	_, err = FromDocument(doc, nil, nil)
	assert.ErrorIs(t, err, level.ErrInvalid)
}
