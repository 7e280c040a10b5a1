package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Choose shows title and options as a list and returns the index picked
// with Enter. ok is false when the list is empty, the user presses Escape
// or q, or the screen closes.
func Choose(screen tcell.Screen, title string, options []string) (index int, ok bool) {
	if len(options) == 0 {
		return 0, false
	}
	for {
		drawMenu(screen, title, options, index)
		switch ev := screen.PollEvent().(type) {
		case nil:
			return 0, false
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyUp:
				index = (index + len(options) - 1) % len(options)
			case tcell.KeyDown:
				index = (index + 1) % len(options)
			case tcell.KeyEnter:
				return index, true
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return 0, false
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'k':
					index = (index + len(options) - 1) % len(options)
				case 'j':
					index = (index + 1) % len(options)
				case 'q':
					return 0, false
				}
			}
		}
	}
}

func drawMenu(screen tcell.Screen, title string, options []string, selected int) {
	screen.Clear()
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	putString(screen, 2, 1, title, white.Bold(true))
	for i, opt := range options {
		style := white
		if i == selected {
			style = style.Reverse(true)
		}
		putString(screen, 4, 3+i, opt, style)
	}
	_, h := screen.Size()
	putString(screen, 2, h-1, "↑/↓ choose  Enter select  q quit", tcell.StyleDefault.Foreground(tcell.ColorGray))
	screen.Show()
}

func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// Notice shows title and lines until a key is pressed.
func Notice(screen tcell.Screen, title string, lines []string) {
	screen.Clear()
	putString(screen, 2, 1, title, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	for i, l := range lines {
		putString(screen, 4, 3+i, l, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	_, h := screen.Size()
	putString(screen, 2, h-1, "press any key", tcell.StyleDefault.Foreground(tcell.ColorGray))
	screen.Show()
	waitKey(screen)
}
