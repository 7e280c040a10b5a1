package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"open-tower/assets"
	"open-tower/internal/component"
	"open-tower/internal/editor"
	"open-tower/internal/game"
	"open-tower/internal/gamemap"
	"open-tower/internal/render"
	"open-tower/internal/store"
	"open-tower/internal/tile"

	"github.com/gdamore/tcell/v2"
)

const panelWidth = 30

var editorHelp = []string{
	"arrows/hjkl move  space place",
	"x erase  tab/S-tab tile",
	"click place  right-click erase",
	"e enemy  b booster  D delete",
	"f field  0-9 type  s stat",
	", . sprite  + - floor",
	"< > change floor  G generate walls",
	"^S save  P playtest  q quit",
}

// Editor is the terminal front-end of a level editor.
type Editor struct {
	ed     *editor.Editor
	repo   store.Repository
	log    *slog.Logger
	screen tcell.Screen
	r      *render.Renderer

	cursorX, cursorY int
	field            int // index into the selected tile's fields, -1 when none
	messages         []string
	quit             bool
	seed             func() int64
}

// NewEditor wraps ed. Saves go to repo.
func NewEditor(ed *editor.Editor, repo store.Repository, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Editor{
		ed:    ed,
		repo:  repo,
		log:   logger,
		field: -1,
		seed:  func() int64 { return time.Now().UnixNano() },
	}
	if tiles := ed.Tiles(); ed.LastSelected() == nil && len(tiles) > 0 {
		ed.Select(tiles[0])
	}
	return a
}

// Run drives the editor on screen until the user quits or the screen
// closes.
func (a *Editor) Run(ctx context.Context, screen tcell.Screen) {
	a.attach(screen)
	a.notify("Editing %s.", a.ed.Name())
	for !a.quit {
		a.draw()
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			a.r.Resize()
		case *tcell.EventKey:
			a.HandleKey(ctx, ev)
		case *tcell.EventMouse:
			a.HandleMouse(ev)
		}
	}
	screen.DisableMouse()
}

func (a *Editor) attach(screen tcell.Screen) {
	a.screen = screen
	a.r = render.NewRenderer(screen, assets.FloorGlyph, panelWidth)
	screen.EnableMouse()
}

// Cursor returns the grid cell under the cursor.
func (a *Editor) Cursor() (int, int) { return a.cursorX, a.cursorY }

// Messages returns the status messages, oldest first.
func (a *Editor) Messages() []string { return a.messages }

// Done reports whether the user asked to quit.
func (a *Editor) Done() bool { return a.quit }

// HandleMouse applies a click on the grid as last drawn. The left button
// moves the cursor there and places the selected tile; the right button
// erases.
func (a *Editor) HandleMouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	if btn&(tcell.Button1|tcell.Button2) == 0 {
		return
	}
	x, y := a.r.ScreenToWorld(ev.Position())
	w, h := a.ed.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	if _, _, visible := a.r.WorldToScreen(x, y); !visible {
		return
	}
	a.cursorX, a.cursorY = x, y
	if btn&tcell.Button1 != 0 {
		a.place()
	} else if a.ed.Erase(x, y) {
		a.notify("Erased (%d,%d).", x, y)
	}
}

// HandleKey applies one key press.
func (a *Editor) HandleKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		a.moveCursor(0, -1)
	case tcell.KeyDown:
		a.moveCursor(0, 1)
	case tcell.KeyLeft:
		a.moveCursor(-1, 0)
	case tcell.KeyRight:
		a.moveCursor(1, 0)
	case tcell.KeyTab:
		a.cycleTile(1)
	case tcell.KeyBacktab:
		a.cycleTile(-1)
	case tcell.KeyEnter:
		a.place()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.backspace()
	case tcell.KeyCtrlS:
		a.save(ctx)
	case tcell.KeyEscape:
		if a.field >= 0 {
			a.field = -1
			return
		}
		a.quit = true
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyRune:
		a.handleRune(ctx, ev.Rune())
	}
}

func (a *Editor) handleRune(ctx context.Context, r rune) {
	if r >= '0' && r <= '9' {
		a.typeDigit(r)
		return
	}
	switch r {
	case 'k':
		a.moveCursor(0, -1)
	case 'j':
		a.moveCursor(0, 1)
	case 'h':
		a.moveCursor(-1, 0)
	case 'l':
		a.moveCursor(1, 0)
	case ' ':
		a.place()
	case 'x':
		if a.ed.Erase(a.cursorX, a.cursorY) {
			a.notify("Erased (%d,%d).", a.cursorX, a.cursorY)
		}
	case 'e':
		a.ed.Select(a.ed.AddEnemy())
		a.field = 0
		a.notify("Added enemy tile %d.", a.ed.LastSelected().ID())
	case 'b':
		a.ed.Select(a.ed.AddBooster())
		a.field = 0
		a.notify("Added booster tile %d.", a.ed.LastSelected().ID())
	case 'D':
		a.deleteTile()
	case 'f':
		a.cycleField()
	case 's':
		a.cycleBoosterStat()
	case ',':
		a.changeSprite(-1)
	case '.':
		a.changeSprite(1)
	case '+':
		i := a.ed.AddFloor()
		a.notify("Added floor %d.", i+1)
	case '-':
		a.removeFloor()
	case '>':
		a.selectFloor(a.ed.SelectedFloor() + 1)
	case '<':
		a.selectFloor(a.ed.SelectedFloor() - 1)
	case 'G':
		a.generate()
	case 'P':
		a.playtest()
	case 'q':
		a.quit = true
	}
}

func (a *Editor) moveCursor(dx, dy int) {
	w, h := a.ed.Size()
	a.cursorX = min(max(a.cursorX+dx, 0), w-1)
	a.cursorY = min(max(a.cursorY+dy, 0), h-1)
}

func (a *Editor) selectedIndex() int {
	for i, t := range a.ed.Tiles() {
		if t == a.ed.LastSelected() {
			return i
		}
	}
	return -1
}

func (a *Editor) cycleTile(dir int) {
	tiles := a.ed.Tiles()
	if len(tiles) == 0 {
		return
	}
	i := (a.selectedIndex() + dir + len(tiles)) % len(tiles)
	a.ed.Select(tiles[i])
	a.field = -1
}

func (a *Editor) place() {
	if _, err := a.ed.Place(a.cursorX, a.cursorY); err != nil {
		a.notify("Cannot place: %v", err)
	}
}

func (a *Editor) deleteTile() {
	t := a.ed.LastSelected()
	if t == nil {
		a.notify("No tile selected.")
		return
	}
	n := len(a.ed.ElementsInLevel(t))
	t.Delete()
	a.field = -1
	if tiles := a.ed.Tiles(); len(tiles) > 0 {
		a.ed.Select(tiles[0])
	}
	a.notify("Deleted tile %d and %d placed elements.", t.ID(), n)
}

func (a *Editor) cycleField() {
	t := a.ed.LastSelected()
	if t == nil || len(t.Fields()) == 0 {
		a.field = -1
		return
	}
	a.field++
	if a.field >= len(t.Fields()) {
		a.field = -1
	}
}

func (a *Editor) focusedField() (*editor.AddableTile, int, bool) {
	t := a.ed.LastSelected()
	if t == nil || a.field < 0 || a.field >= len(t.Fields()) {
		return nil, 0, false
	}
	return t, a.field, true
}

func (a *Editor) typeDigit(r rune) {
	t, i, ok := a.focusedField()
	if !ok {
		return
	}
	a.setField(t, i, t.Fields()[i].Text()+string(r))
}

func (a *Editor) backspace() {
	t, i, ok := a.focusedField()
	if !ok {
		return
	}
	text := t.Fields()[i].Text()
	if text != "" {
		text = text[:len(text)-1]
	}
	a.setField(t, i, text)
}

// setField routes an edit through the tile's change callbacks so the value
// is clamped into range.
func (a *Editor) setField(t *editor.AddableTile, i int, text string) {
	var err error
	switch t.TileType() {
	case tile.Enemy:
		callbacks := [...]func(string) error{t.OnLifeChange, t.OnPowerChange, t.OnDefenseChange, t.OnExperienceChange}
		err = callbacks[i](text)
	case tile.Booster:
		err = t.OnBoosterValueChange(text)
	}
	if err != nil {
		a.notify("%v", err)
	}
}

func (a *Editor) cycleBoosterStat() {
	t := a.ed.LastSelected()
	if t == nil {
		return
	}
	if err := t.IterateBoosterStat(); err != nil {
		a.notify("%v", err)
		return
	}
	st, _ := t.BoostedStatType()
	a.notify("Booster %d now raises %s.", t.ID(), st)
}

func (a *Editor) changeSprite(dir int) {
	t := a.ed.LastSelected()
	if t == nil {
		return
	}
	cur, err := t.SpriteID()
	if err != nil {
		a.notify("%v", err)
		return
	}
	n := a.ed.Sprites().Count(t.TileType())
	if err := t.ChangeSprite((cur + dir + n) % n); err != nil {
		a.notify("%v", err)
	}
}

func (a *Editor) generate() {
	placed, removed, err := a.ed.GenerateLayout(a.seed())
	if err != nil {
		a.notify("Cannot generate: %v", err)
		return
	}
	a.notify("Generated floor %d: %d walls placed, %d removed.", a.ed.SelectedFloor()+1, placed, removed)
}

func (a *Editor) removeFloor() {
	i := a.ed.SelectedFloor()
	if err := a.ed.RemoveFloor(i); err != nil {
		a.notify("Cannot remove floor: %v", err)
		return
	}
	a.notify("Removed floor %d.", i+1)
}

func (a *Editor) selectFloor(i int) {
	if err := a.ed.SelectFloor(i); err != nil {
		return
	}
	a.notify("Floor %d of %d.", i+1, a.ed.FloorCount())
}

func (a *Editor) save(ctx context.Context) {
	doc, err := a.ed.Export()
	if err == nil {
		err = a.repo.Save(ctx, doc)
	}
	if err != nil {
		a.log.Error("save failed", "level", a.ed.Name(), "err", err)
		a.notify("Save failed: %v", err)
		return
	}
	a.notify("Saved %s.", doc.Name)
}

func (a *Editor) playtest() {
	doc, err := a.ed.Export()
	if err != nil {
		a.notify("Cannot playtest: %v", err)
		return
	}
	g, err := game.New(doc, a.ed.Sprites(), a.log)
	if err != nil {
		a.notify("Cannot playtest: %v", firstLine(err))
		return
	}
	run := Play(a.screen, g, a.log)
	a.r.Resize()
	a.notify("Playtest ended: %s after %d steps.", run.Outcome, run.Steps)
}

// firstLine keeps the first of several joined errors.
func firstLine(err error) error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return err
}

func (a *Editor) notify(format string, args ...any) {
	a.messages = append(a.messages, fmt.Sprintf(format, args...))
	if len(a.messages) > 50 {
		a.messages = a.messages[len(a.messages)-50:]
	}
}

func (a *Editor) draw() {
	floor, _ := a.ed.FloorEntity(a.ed.SelectedFloor())
	w, h := a.ed.Size()
	a.r.DrawFloor(a.ed.World(), gamemap.New(a.ed.World(), floor, w, h), a.cursorX, a.cursorY)
	a.r.DrawCursor(a.cursorX, a.cursorY)
	a.r.DrawPanel(a.panel())

	player := a.ed.Player()
	stats, _ := player.Stats()
	keys, _ := player.Inventory()
	a.r.DrawHUD(render.Status{
		Level:      a.ed.Name(),
		Floor:      a.ed.SelectedFloor(),
		FloorCount: a.ed.FloorCount(),
		Stats:      stats,
		Keys:       keys,
	}, a.messages)
}

func (a *Editor) panel() render.Panel {
	p := render.Panel{
		Title: fmt.Sprintf("(%d,%d) %s", a.cursorX, a.cursorY, a.elementLabel()),
		Help:  editorHelp,
	}
	sel := a.ed.LastSelected()
	for _, t := range a.ed.Tiles() {
		p.Entries = append(p.Entries, render.PaletteEntry{
			Glyph:    t.Sprite(),
			Label:    tileLabel(t),
			Selected: t == sel,
		})
	}
	if sel == nil {
		return p
	}
	if st, err := sel.BoostedStatType(); err == nil {
		p.Fields = append(p.Fields, render.FieldLine{Label: "Stat", Text: st.String()})
	}
	for i, f := range sel.Fields() {
		p.Fields = append(p.Fields, render.FieldLine{
			Label:   fieldLabel(sel, i),
			Text:    f.Text(),
			Focused: i == a.field,
		})
	}
	return p
}

func tileLabel(t *editor.AddableTile) string {
	switch t.TileType() {
	case tile.Enemy:
		l, _ := t.EnemyLife()
		p, _ := t.EnemyPower()
		d, _ := t.EnemyDefense()
		return fmt.Sprintf("%d enemy %d/%d/%d", t.ID(), l, p, d)
	case tile.Booster:
		st, _ := t.BoostedStatType()
		n, _ := t.BoostedAmount()
		return fmt.Sprintf("%d booster %s+%d", t.ID(), st, n)
	}
	return fmt.Sprintf("%d %s", t.ID(), t.TileType())
}

func fieldLabel(t *editor.AddableTile, i int) string {
	if t.TileType() == tile.Booster {
		return "Amount"
	}
	return [...]string{"Life", "Power", "Defense", "Experience"}[i]
}

// elementLabel describes what stands under the cursor.
func (a *Editor) elementLabel() string {
	e, ok := a.ed.ElementAt(a.ed.SelectedFloor(), a.cursorX, a.cursorY)
	if !ok {
		return ""
	}
	k := a.ed.World().Get(e, component.CKind).(component.Kind)
	return k.Tile.String()
}
