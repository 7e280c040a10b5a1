package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-tower/assets"
	"open-tower/internal/editor"
	"open-tower/internal/game"
	"open-tower/internal/level"
	"open-tower/internal/store"
	"open-tower/internal/tile"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, ss.Init())
	ss.SetSize(100, 30)
	t.Cleanup(ss.Fini)
	return ss
}

type harness struct {
	t    *testing.T
	app  *Editor
	ed   *editor.Editor
	repo *store.FileStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ed, err := editor.New("draft", 5, 5, nil, discard())
	require.NoError(t, err)
	repo, err := store.NewFileStore(t.TempDir(), discard())
	require.NoError(t, err)
	a := NewEditor(ed, repo, discard())
	a.attach(newSimScreen(t))
	return &harness{t: t, app: a, ed: ed, repo: repo}
}

func (h *harness) keys(s string) {
	for _, r := range s {
		h.app.HandleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (h *harness) key(k tcell.Key) {
	h.app.HandleKey(context.Background(), tcell.NewEventKey(k, 0, tcell.ModNone))
}

func (h *harness) selectType(typ tile.Type) *editor.AddableTile {
	for range h.ed.Tiles() {
		if sel := h.ed.LastSelected(); sel.TileType() == typ {
			return sel
		}
		h.key(tcell.KeyTab)
	}
	h.t.Fatalf("no %s tile in palette", typ)
	return nil
}

func (h *harness) lastMessage() string {
	msgs := h.app.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func TestCursorStaysOnGrid(t *testing.T) {
	h := newHarness(t)
	h.keys("hk")
	x, y := h.app.Cursor()
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})
	h.keys("llllllljjjjjjj")
	x, y = h.app.Cursor()
	assert.Equal(t, [2]int{4, 4}, [2]int{x, y})
}

func TestPlaceAndErase(t *testing.T) {
	h := newHarness(t)
	wall := h.selectType(tile.Wall)
	h.keys("l ")
	e, ok := h.ed.ElementAt(0, 1, 0)
	require.True(t, ok)
	src, _ := h.ed.SourceOf(e)
	assert.Same(t, wall, src)

	h.keys("x")
	_, ok = h.ed.ElementAt(0, 1, 0)
	assert.False(t, ok)
}

func TestTabCyclesPalette(t *testing.T) {
	h := newHarness(t)
	first := h.ed.LastSelected()
	n := len(h.ed.Tiles())
	for range n {
		h.key(tcell.KeyTab)
	}
	assert.Same(t, first, h.ed.LastSelected())
	h.key(tcell.KeyBacktab)
	assert.Same(t, h.ed.Tiles()[n-1], h.ed.LastSelected())
}

func TestEnemyFieldEditing(t *testing.T) {
	h := newHarness(t)
	h.keys("e")
	enemy := h.ed.LastSelected()
	require.Equal(t, tile.Enemy, enemy.TileType())

	h.keys("5")
	life, err := enemy.EnemyLife()
	require.NoError(t, err)
	assert.Equal(t, 105, life)

	h.key(tcell.KeyBackspace2)
	life, _ = enemy.EnemyLife()
	assert.Equal(t, 10, life)

	// Power is the next field; typed digits past the maximum clamp.
	h.keys("f999999999")
	power, _ := enemy.EnemyPower()
	assert.Equal(t, level.MaxEnemyStat, power)

	h.key(tcell.KeyEscape)
	assert.False(t, h.app.Done(), "escape leaves field focus first")
	h.keys("7")
	power, _ = enemy.EnemyPower()
	assert.Equal(t, level.MaxEnemyStat, power, "digits are ignored without a focused field")
}

func TestBoosterStatAndSprite(t *testing.T) {
	h := newHarness(t)
	h.keys("b")
	booster := h.ed.LastSelected()
	h.keys("s")
	st, err := booster.BoostedStatType()
	require.NoError(t, err)
	assert.Equal(t, tile.Power, st)

	h.keys(".")
	id, err := booster.SpriteID()
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	h.keys(",,")
	id, _ = booster.SpriteID()
	assert.Equal(t, h.ed.Sprites().Count(tile.Booster)-1, id, "sprite selection wraps")
}

func TestSpriteOnStaticTileReportsError(t *testing.T) {
	h := newHarness(t)
	h.selectType(tile.Wall)
	h.keys(".")
	assert.Contains(t, h.lastMessage(), "wrong tile type")
}

func TestDeleteTileRemovesElements(t *testing.T) {
	h := newHarness(t)
	h.keys("e ")
	enemy := h.ed.LastSelected()
	h.keys("D")
	_, ok := h.ed.Tile(enemy.ID())
	assert.False(t, ok)
	_, ok = h.ed.ElementAt(0, 0, 0)
	assert.False(t, ok)
	assert.NotNil(t, h.ed.LastSelected())
}

func TestFloorKeys(t *testing.T) {
	h := newHarness(t)
	h.keys("+")
	assert.Equal(t, 2, h.ed.FloorCount())
	assert.Equal(t, 1, h.ed.SelectedFloor())
	h.keys("<")
	assert.Equal(t, 0, h.ed.SelectedFloor())
	h.keys("<")
	assert.Equal(t, 0, h.ed.SelectedFloor(), "no floor below the first")
	h.keys(">-")
	assert.Equal(t, 1, h.ed.FloorCount())
	h.keys("-")
	assert.Contains(t, h.lastMessage(), "Cannot remove floor")
}

func TestSaveWritesRepository(t *testing.T) {
	h := newHarness(t)
	h.selectType(tile.Player)
	h.keys(" ")
	h.key(tcell.KeyCtrlS)
	assert.Equal(t, "Saved draft.", h.lastMessage())

	doc, err := h.repo.Load(context.Background(), "draft")
	require.NoError(t, err)
	require.NoError(t, doc.Validate())
}

func TestPlaytestNeedsPlayer(t *testing.T) {
	h := newHarness(t)
	h.keys("P")
	assert.True(t, strings.HasPrefix(h.lastMessage(), "Cannot playtest"), h.lastMessage())
}

func TestRunQuits(t *testing.T) {
	h := newHarness(t)
	ss := newSimScreen(t)
	ss.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	ss.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	h.app.Run(context.Background(), ss)
	assert.True(t, h.app.Done())
	x, _ := h.app.Cursor()
	assert.Equal(t, 1, x)
}

func TestPlayRecordsQuit(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	doc, err := level.Load(assets.FS, assets.TutorialLevel)
	require.NoError(t, err)
	g, err := game.New(doc, nil, discard())
	require.NoError(t, err)

	ss := newSimScreen(t)
	ss.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	ss.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	run := Play(ss, g, discard())
	assert.Equal(t, "quit", run.Outcome)
	assert.Equal(t, 1, run.Steps)
}

func TestChoose(t *testing.T) {
	ss := newSimScreen(t)
	ss.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	ss.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	i, ok := Choose(ss, "Levels", []string{"a", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, 1, i)

	ss.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	_, ok = Choose(ss, "Levels", []string{"a"})
	assert.False(t, ok)

	_, ok = Choose(ss, "Levels", nil)
	assert.False(t, ok)
}

func TestGenerateKeyWallsFloor(t *testing.T) {
	h := newHarness(t)
	h.app.seed = func() int64 { return 5 }
	h.keys("G")
	assert.True(t, strings.HasPrefix(h.lastMessage(), "Generated floor 1"), h.lastMessage())
	_, ok := h.ed.ElementAt(0, 0, 0)
	assert.True(t, ok, "corner of a generated floor is wall")

	h.ed.DeleteTile(h.selectType(tile.Wall))
	h.keys("G")
	assert.Contains(t, h.lastMessage(), "no wall tile")
}

func TestMouseClickPlacesAndErases(t *testing.T) {
	h := newHarness(t)
	wall := h.selectType(tile.Wall)
	h.app.draw()
	sx, sy, visible := h.app.r.WorldToScreen(3, 2)
	require.True(t, visible)

	h.app.HandleMouse(tcell.NewEventMouse(sx+1, sy, tcell.Button1, tcell.ModNone))
	x, y := h.app.Cursor()
	assert.Equal(t, [2]int{3, 2}, [2]int{x, y}, "both columns of a cell map to it")
	e, ok := h.ed.ElementAt(0, 3, 2)
	require.True(t, ok)
	src, _ := h.ed.SourceOf(e)
	assert.Same(t, wall, src)

	h.app.HandleMouse(tcell.NewEventMouse(sx, sy, tcell.Button2, tcell.ModNone))
	_, ok = h.ed.ElementAt(0, 3, 2)
	assert.False(t, ok)
}

func TestMouseClickOutsideGridIgnored(t *testing.T) {
	h := newHarness(t)
	h.app.draw()
	h.app.HandleMouse(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	h.app.HandleMouse(tcell.NewEventMouse(h.app.r.PanelX()+2, 3, tcell.Button1, tcell.ModNone))
	x, y := h.app.Cursor()
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})
	_, ok := h.ed.ElementAt(0, 0, 0)
	assert.False(t, ok)
}
