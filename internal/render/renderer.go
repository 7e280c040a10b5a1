package render

import (
	"sort"

	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/gamemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDRows is the number of rows reserved below the grid.
const HUDRows = 6

// Renderer draws a floor grid onto a tcell screen, leaving panelWidth
// columns free on the right for side panels.
type Renderer struct {
	screen     tcell.Screen
	camera     *Camera
	floorGlyph string
	panelWidth int
}

// NewRenderer creates a Renderer for the given screen. floorGlyph fills
// empty cells.
func NewRenderer(screen tcell.Screen, floorGlyph string, panelWidth int) *Renderer {
	r := &Renderer{screen: screen, floorGlyph: floorGlyph, panelWidth: panelWidth}
	r.camera = NewCamera(0, 0)
	r.Resize()
	return r
}

// Resize adapts the viewport to the current screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.Resize(max(0, w-r.panelWidth), max(0, h-HUDRows))
}

// Screen returns the underlying tcell screen.
func (r *Renderer) Screen() tcell.Screen { return r.screen }

// PanelX is the first column of the side panel.
func (r *Renderer) PanelX() int { return r.camera.ViewWidth + 1 }

// WorldToScreen converts grid coordinates to screen coordinates.
// visible is false when the position falls outside the viewport.
func (r *Renderer) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	return r.camera.WorldToScreen(wx, wy)
}

// ScreenToWorld converts a screen cell to grid coordinates.
func (r *Renderer) ScreenToWorld(sx, sy int) (int, int) {
	return r.camera.ScreenToWorld(sx, sy)
}

// DrawFloor clears the screen and renders one floor: the background glyph
// on every cell, then the floor's entities in RenderOrder. The camera keeps
// (fx, fy) in view.
func (r *Renderer) DrawFloor(w *ecs.World, gmap *gamemap.GameMap, fx, fy int) {
	r.screen.Clear()
	r.camera.Frame(gmap.Width, gmap.Height, fx, fy)
	r.drawGrid(gmap)
	r.drawEntities(w, gmap)
}

func (r *Renderer) drawGrid(gmap *gamemap.GameMap) {
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := 0; y < gmap.Height; y++ {
		for x := 0; x < gmap.Width; x++ {
			if sx, sy, ok := r.camera.WorldToScreen(x, y); ok {
				r.putGlyph(sx, sy, r.floorGlyph, style)
			}
		}
	}
}

type renderableEntity struct {
	order int
	pos   component.Position
	rend  component.Renderable
}

func (r *Renderer) drawEntities(w *ecs.World, gmap *gamemap.GameMap) {
	ids := w.Children(gmap.Floor)
	entities := make([]renderableEntity, 0, len(ids))
	for _, id := range ids {
		pos, ok := w.Get(id, component.CPosition).(component.Position)
		if !ok {
			continue
		}
		rend, ok := w.Get(id, component.CRenderable).(component.Renderable)
		if !ok {
			continue
		}
		entities = append(entities, renderableEntity{order: rend.RenderOrder, pos: pos, rend: rend})
	}

	// Lower order is drawn first, i.e. behind.
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].order < entities[j].order
	})

	for _, e := range entities {
		sx, sy, onScreen := r.camera.WorldToScreen(e.pos.X, e.pos.Y)
		if !onScreen {
			continue
		}
		style := tcell.StyleDefault.Foreground(e.rend.FGColor).Background(tcell.ColorBlack)
		r.putGlyph(sx, sy, e.rend.Glyph, style)
	}
}

// DrawCursor highlights grid cell (x, y) without changing its glyph.
func (r *Renderer) DrawCursor(x, y int) {
	sx, sy, ok := r.camera.WorldToScreen(x, y)
	if !ok {
		return
	}
	for col := sx; col < sx+2; col++ {
		mainc, combc, style, _ := r.screen.GetContent(col, sy)
		r.screen.SetContent(col, sy, mainc, combc, style.Reverse(true).Background(tcell.ColorWhite))
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) < 2 {
		// Narrow glyphs still own two columns.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
