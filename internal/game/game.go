package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"open-tower/internal/component"
	"open-tower/internal/ecs"
	"open-tower/internal/factory"
	"open-tower/internal/gamemap"
	"open-tower/internal/level"
	"open-tower/internal/render"
	"open-tower/internal/sprite"
	"open-tower/internal/system"
	"open-tower/internal/tile"
)

// State tracks the play state machine.
type State uint8

const (
	StatePlaying State = iota
	StateVictory
	StateQuit
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateVictory:
		return "victory"
	case StateQuit:
		return "quit"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// maxMessages is the length of the message log.
const maxMessages = 50

// Game is one play session of a level.
type Game struct {
	doc      *level.Document
	world    *ecs.World
	root     ecs.EntityID
	floors   []ecs.EntityID
	floor    int
	gmap     *gamemap.GameMap
	playerID ecs.EntityID
	startX   int
	startY   int
	state    State
	messages []string
	runLog   RunLog
	log      *slog.Logger
}

// New validates doc and builds its world: one floor entity per floor under
// a level root, every placed element a child of its floor.
func New(doc *level.Document, sprites *sprite.Registry, logger *slog.Logger) (*Game, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if sprites == nil {
		sprites = sprite.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g := &Game{
		doc:   doc,
		world: ecs.NewWorld(),
		log:   logger.With("level", doc.Name),
		runLog: RunLog{
			Level:        doc.Name,
			FloorReached: 1,
		},
	}
	g.root = g.world.CreateEntity()
	for i, fd := range doc.Floors {
		floor := factory.NewFloor(g.world, g.root, i)
		g.floors = append(g.floors, floor)
		for _, e := range fd.Elements {
			if err := g.populate(sprites, floor, e); err != nil {
				return nil, fmt.Errorf("floor %d: %w", i, err)
			}
		}
	}

	fi, x, y, _ := doc.PlayerLocation()
	g.startX, g.startY = x, y
	g.enterFloor(fi)
	g.addMessage(fmt.Sprintf("You enter %s.", doc.Name))
	g.log.Info("game started", "floors", len(g.floors))
	return g, nil
}

func (g *Game) populate(sprites *sprite.Registry, floor ecs.EntityID, e level.ElementDef) error {
	def, _ := g.doc.Tile(e.Tile)
	glyph, err := sprites.For(def.Type, def.Sprite)
	if err != nil {
		return fmt.Errorf("tile %d: %w", def.ID, err)
	}
	switch def.Type {
	case tile.Player:
		stats, err := g.doc.Player.Stats()
		if err != nil {
			return err
		}
		inv, err := g.doc.Player.Inventory()
		if err != nil {
			return err
		}
		g.playerID = factory.NewPlayer(g.world, floor, def.ID, glyph, e.X, e.Y, stats, inv)
	case tile.Enemy:
		stats, err := component.NewEnemyStats(def.Enemy.Life, def.Enemy.Power, def.Enemy.Defense, def.Enemy.Experience)
		if err != nil {
			return fmt.Errorf("tile %d: %w", def.ID, err)
		}
		factory.NewEnemy(g.world, floor, def.ID, glyph, e.X, e.Y, stats)
	case tile.Booster:
		factory.NewBooster(g.world, floor, def.ID, glyph, e.X, e.Y, component.Booster{
			Stat:   def.Booster.Stat,
			Amount: def.Booster.Amount,
		})
	default:
		factory.NewStatic(g.world, floor, def.ID, def.Type, glyph, e.X, e.Y)
	}
	return nil
}

func (g *Game) enterFloor(i int) {
	g.floor = i
	g.gmap = gamemap.New(g.world, g.floors[i], g.doc.Width, g.doc.Height)
	g.runLog.FloorReached = max(g.runLog.FloorReached, i+1)
}

// State returns the current play state.
func (g *Game) State() State { return g.state }

// World returns the ECS world holding the level.
func (g *Game) World() *ecs.World { return g.world }

// Map returns the grid of the floor the player is on.
func (g *Game) Map() *gamemap.GameMap { return g.gmap }

// Floor returns the index of the floor the player is on.
func (g *Game) Floor() int { return g.floor }

// Player returns the player entity.
func (g *Game) Player() ecs.EntityID { return g.playerID }

// Messages returns the message log, oldest first.
func (g *Game) Messages() []string { return g.messages }

// Stats returns the player's current stats.
func (g *Game) Stats() component.Stats {
	return g.world.Get(g.playerID, component.CStats).(component.Stats)
}

// Inventory returns the player's current keys.
func (g *Game) Inventory() component.Inventory {
	return g.world.Get(g.playerID, component.CInventory).(component.Inventory)
}

// PlayerPosition returns the player's cell on the current floor.
func (g *Game) PlayerPosition() component.Position {
	return g.world.Get(g.playerID, component.CPosition).(component.Position)
}

// Status summarises the session for the HUD.
func (g *Game) Status() render.Status {
	return render.Status{
		Level:      g.doc.Name,
		Floor:      g.floor,
		FloorCount: len(g.floors),
		Stats:      g.Stats(),
		Keys:       g.Inventory(),
	}
}

// Act applies one player action. Actions after the game has ended are
// ignored.
func (g *Game) Act(action Action) {
	if g.state != StatePlaying {
		return
	}
	if action == ActionQuit {
		g.state = StateQuit
		return
	}
	dx, dy := actionToDelta(action)
	if dx == 0 && dy == 0 {
		return
	}
	result, target := system.TryMove(g.world, g.gmap, g.playerID, dx, dy)
	switch result {
	case system.MoveOK:
		g.countStep()
	case system.MoveInteract:
		g.interact(target)
	}
}

func (g *Game) countStep() {
	s := g.Stats()
	s.IncrementSteps()
	g.world.Add(g.playerID, s)
}

// interact resolves a bump into target.
func (g *Game) interact(target ecs.EntityID) {
	kind := g.world.Get(target, component.CKind).(component.Kind).Tile
	pos := g.world.Get(target, component.CPosition).(component.Position)
	switch {
	case kind == tile.Enemy:
		g.fight(target)
	case kind.IsKey():
		color, _ := component.KeyColorOf(kind)
		inv := g.Inventory()
		if err := inv.Add(color, 1); err != nil {
			g.log.Error("key pickup failed", "color", color, "err", err)
			return
		}
		g.world.Add(g.playerID, inv)
		g.world.DestroyEntity(target)
		system.Step(g.world, g.playerID, pos.X, pos.Y)
		g.addMessage(fmt.Sprintf("You pick up a %s key.", color))
	case kind.IsDoor():
		color, _ := component.KeyColorOf(kind)
		inv := g.Inventory()
		if err := inv.Use(color); err != nil {
			g.addMessage(fmt.Sprintf("The %s door is locked.", color))
			return
		}
		g.world.Add(g.playerID, inv)
		g.world.DestroyEntity(target)
		g.addMessage(fmt.Sprintf("You unlock the %s door.", color))
	case kind == tile.Booster:
		b := g.world.Get(target, component.CBooster).(component.Booster)
		s := g.Stats()
		s.Add(b.Stat, b.Amount)
		g.world.Add(g.playerID, s)
		g.world.DestroyEntity(target)
		system.Step(g.world, g.playerID, pos.X, pos.Y)
		g.addMessage(fmt.Sprintf("%s +%d.", b.Stat, b.Amount))
	case kind == tile.UpStairs:
		g.climb(1, tile.DownStairs)
	case kind == tile.DownStairs:
		g.climb(-1, tile.UpStairs)
	case kind == tile.Exit:
		system.Step(g.world, g.playerID, pos.X, pos.Y)
		g.state = StateVictory
		g.addMessage("You reach the exit. Victory!")
		g.log.Info("level cleared", "steps", g.Stats().StepCount())
	}
}

func (g *Game) fight(enemy ecs.EntityID) {
	f, err := system.Fight(g.world, g.playerID, enemy)
	switch {
	case errors.Is(err, system.ErrCannotDamage):
		g.addMessage("Your attacks cannot hurt this enemy.")
	case errors.Is(err, system.ErrTooStrong):
		g.addMessage(fmt.Sprintf("This enemy would deal %d damage. Too strong!", f.Damage))
	case err != nil:
		g.log.Error("fight failed", "err", err)
	default:
		g.runLog.EnemiesDefeated++
		g.runLog.DamageTaken += f.Damage
		g.addMessage(fmt.Sprintf("You win in %d rounds, taking %d damage.", f.Rounds, f.Damage))
	}
}

// climb moves the player dir floors and places it on the arrival stair of
// that floor, or on the level's start cell when it has none.
func (g *Game) climb(dir int, arrival tile.Type) {
	next := g.floor + dir
	if next < 0 || next >= len(g.floors) {
		g.addMessage("The stairs lead nowhere.")
		return
	}
	g.enterFloor(next)
	g.world.SetParent(g.playerID, g.floors[next])
	x, y := g.startX, g.startY
	if _, pos, ok := g.gmap.Find(func(k component.Kind) bool { return k.Tile == arrival }); ok {
		x, y = pos.X, pos.Y
	}
	system.Step(g.world, g.playerID, x, y)
	g.addMessage(fmt.Sprintf("Floor %d.", next+1))
}

// RunLog returns the summary of the session so far.
func (g *Game) RunLog() RunLog {
	r := g.runLog
	s := g.Stats()
	r.Outcome = g.state.String()
	r.Steps = s.StepCount()
	r.Life, r.Power, r.Defense, r.Experience = s.Life(), s.Power(), s.Defense(), s.Experience()
	r.FinishedAt = time.Now().UTC()
	return r
}

func (g *Game) addMessage(msg string) {
	g.messages = append(g.messages, msg)
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}
