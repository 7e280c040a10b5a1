package render

import (
	"testing"

	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/factory"
	"open-tower/internal/gamemap"
	"open-tower/internal/tile"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(60, 24)
	t.Cleanup(ss.Fini)
	return ss
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func TestDrawFloorLayersEntities(t *testing.T) {
	ss := newSimScreen(t)
	r := NewRenderer(ss, ".", 20)

	w := ecs.NewWorld()
	root := w.CreateEntity()
	floor := factory.NewFloor(w, root, 0)
	other := factory.NewFloor(w, root, 1)
	gmap := gamemap.New(w, floor, 3, 3)
	factory.NewStatic(w, floor, 1, tile.Wall, "#", 1, 1)
	factory.NewStatic(w, floor, 2, tile.UpStairs, "^", 2, 2)
	factory.NewPlayer(w, floor, 3, "@", 2, 2, component.MustStats(10, 1, 1, 0), component.Inventory{})
	factory.NewStatic(w, other, 1, tile.Wall, "#", 0, 0)

	r.DrawFloor(w, gmap, 0, 0)

	cases := []struct {
		x, y int
		want rune
	}{
		{0, 0, '.'},
		{1, 1, '#'},
		{2, 2, '@'},
	}
	for _, c := range cases {
		sx, sy, ok := r.WorldToScreen(c.x, c.y)
		if !ok {
			t.Fatalf("cell (%d,%d) off screen", c.x, c.y)
		}
		if got := runeAt(ss, sx, sy); got != c.want {
			t.Errorf("cell (%d,%d) = %q; want %q", c.x, c.y, got, c.want)
		}
	}
}

func TestDrawTextAdvancesByWidth(t *testing.T) {
	ss := newSimScreen(t)
	r := NewRenderer(ss, ".", 0)
	if col := r.DrawText(2, 0, "ab", tcell.StyleDefault); col != 4 {
		t.Errorf("ascii: col = %d; want 4", col)
	}
	if col := r.DrawText(0, 1, "a界", tcell.StyleDefault); col != 3 {
		t.Errorf("wide: col = %d; want 3", col)
	}
}

func TestDrawHUDShowsStatus(t *testing.T) {
	ss := newSimScreen(t)
	r := NewRenderer(ss, ".", 0)
	st := Status{Level: "Tower", Floor: 1, FloorCount: 3, Stats: component.MustStats(50, 5, 5, 2)}
	r.DrawHUD(st, []string{"one", "two", "three", "four"})

	_, h := ss.Size()
	if got := runeAt(ss, 0, h-HUDRows+1); got != 'T' {
		t.Errorf("status row starts with %q; want 'T'", got)
	}
	// Only the last three messages fit.
	if got := runeAt(ss, 0, h-HUDRows+3); got != 't' {
		t.Errorf("first message row = %q; want 't' (two)", got)
	}
	if got := runeAt(ss, 0, h-1); got != 'f' {
		t.Errorf("last message row = %q; want 'f' (four)", got)
	}
}

func TestStatusLine(t *testing.T) {
	inv, err := component.NewInventory(1, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	st := Status{Level: "L", Floor: 0, FloorCount: 2, Stats: component.MustStats(50, 5, 6, 7), Keys: inv}
	if got, want := st.KeysLine(), "Keys  yellow 1  blue 0  red 2"; got != want {
		t.Errorf("KeysLine = %q; want %q", got, want)
	}
	if got, want := st.StatusLine(), "L  Floor 1/2  ❤ 50  ⚔ 5  🛡 6  ★ 7  Steps 0"; got != want {
		t.Errorf("StatusLine = %q; want %q", got, want)
	}
}
