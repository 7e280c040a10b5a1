package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// PaletteEntry is one tile row of the editor palette.
type PaletteEntry struct {
	Glyph    string
	Label    string
	Selected bool
}

// FieldLine is one editable numeric field of the selected tile.
type FieldLine struct {
	Label   string
	Text    string
	Focused bool
}

// Panel is the editor side panel: the tile palette followed by the fields
// of the selected tile and a key help footer.
type Panel struct {
	Title   string
	Entries []PaletteEntry
	Fields  []FieldLine
	Help    []string
}

// DrawPanel renders p in the columns right of the grid viewport. Entries
// that do not fit are scrolled so the selected one stays visible.
func (r *Renderer) DrawPanel(p Panel) {
	x := r.PanelX()
	_, h := r.screen.Size()
	h -= HUDRows
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	gray := tcell.StyleDefault.Foreground(tcell.ColorGray)

	y := 0
	r.DrawText(x, y, p.Title, white.Bold(true))
	y += 2

	reserved := len(p.Fields) + len(p.Help) + 2
	rows := max(1, h-y-reserved)
	first := 0
	for i, e := range p.Entries {
		if e.Selected && i >= rows {
			first = i - rows + 1
		}
	}
	for i := first; i < len(p.Entries) && i-first < rows; i++ {
		e := p.Entries[i]
		style := white
		if e.Selected {
			style = style.Reverse(true)
		}
		r.putGlyph(x, y, e.Glyph, style)
		r.DrawText(x+3, y, runewidth.Truncate(e.Label, r.panelWidth-4, "…"), style)
		y++
	}
	y++

	for _, f := range p.Fields {
		style := white
		if f.Focused {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow).Underline(true)
		}
		col := r.DrawText(x, y, f.Label+": ", gray)
		r.DrawText(col, y, f.Text, style)
		y++
	}
	y++
	for _, line := range p.Help {
		r.DrawText(x, y, line, gray)
		y++
	}
}
