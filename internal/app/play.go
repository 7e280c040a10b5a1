package app

import (
	"log/slog"

	"open-tower/assets"
	"open-tower/internal/game"
	"open-tower/internal/render"

	"github.com/gdamore/tcell/v2"
)

// Play runs g on screen until the player wins or quits, then appends the
// run to the run log. A closed screen counts as quitting.
func Play(screen tcell.Screen, g *game.Game, logger *slog.Logger) game.RunLog {
	r := render.NewRenderer(screen, assets.FloorGlyph, 0)
	for g.State() == game.StatePlaying {
		drawGame(r, g)
		switch ev := screen.PollEvent().(type) {
		case nil:
			g.Act(game.ActionQuit)
		case *tcell.EventResize:
			screen.Sync()
			r.Resize()
		case *tcell.EventKey:
			g.Act(game.KeyToAction(ev))
		}
	}
	if g.State() == game.StateVictory {
		drawGame(r, g)
		waitKey(screen)
	}

	run := g.RunLog()
	if err := game.SaveRunLog(run); err != nil {
		logger.Warn("run log not saved", "err", err)
	}
	logger.Info("run finished", "outcome", run.Outcome, "steps", run.Steps, "floor", run.FloorReached)
	return run
}

func drawGame(r *render.Renderer, g *game.Game) {
	pos := g.PlayerPosition()
	r.DrawFloor(g.World(), g.Map(), pos.X, pos.Y)
	r.DrawHUD(g.Status(), g.Messages())
}

// waitKey blocks until a key is pressed or the screen closes.
func waitKey(screen tcell.Screen) {
	for {
		switch screen.PollEvent().(type) {
		case nil, *tcell.EventKey:
			return
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}
