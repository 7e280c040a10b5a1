package render

import (
	"fmt"

	"open-tower/internal/component"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Status is the player summary shown on the HUD.
type Status struct {
	Level      string
	Floor      int // 0-indexed
	FloorCount int
	Stats      component.Stats
	Keys       component.Inventory
}

// StatusLine formats the first HUD row.
func (s Status) StatusLine() string {
	return fmt.Sprintf("%s  Floor %d/%d  ❤ %d  ⚔ %d  🛡 %d  ★ %d  Steps %d",
		s.Level, s.Floor+1, s.FloorCount,
		s.Stats.Life(), s.Stats.Power(), s.Stats.Defense(), s.Stats.Experience(), s.Stats.StepCount())
}

// KeysLine formats the key counts.
func (s Status) KeysLine() string {
	return fmt.Sprintf("Keys  yellow %d  blue %d  red %d", s.Keys.Yellow(), s.Keys.Blue(), s.Keys.Red())
}

// DrawHUD renders the status bar and the tail of the message log at the
// bottom of the screen, then shows the frame.
func (r *Renderer) DrawHUD(st Status, messages []string) {
	_, screenH := r.screen.Size()
	hudY := screenH - HUDRows

	r.drawHLine(hudY, tcell.ColorGray)
	r.DrawText(0, hudY+1, st.StatusLine(), tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.DrawText(0, hudY+2, st.KeysLine(), tcell.StyleDefault.Foreground(tcell.ColorAqua))

	start := max(0, len(messages)-(HUDRows-3))
	for i, msg := range messages[start:] {
		r.DrawText(0, hudY+3+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
	r.screen.Show()
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// DrawText writes text starting at (x, y), advancing by each rune's
// display width. It returns the column after the last rune.
func (r *Renderer) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.screen.SetContent(col, y, ch, nil, style)
		col += w
	}
	return col
}
