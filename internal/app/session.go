package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"open-tower/internal/config"
	"open-tower/internal/editor"
	"open-tower/internal/game"
	"open-tower/internal/level"
	"open-tower/internal/sprite"
	"open-tower/internal/store"

	"github.com/gdamore/tcell/v2"
)

// Session is one user's visit: a menu to play stored levels and, when
// allowed, edit them.
type Session struct {
	Player      string
	Repo        store.Repository
	Sprites     *sprite.Registry
	Config      config.Config
	AllowEditor bool
	Log         *slog.Logger
}

const newLevelOption = "+ new level"

// Run shows the main menu on screen until the user quits or ctx ends.
func (s *Session) Run(ctx context.Context, screen tcell.Screen) error {
	options := []string{"Play"}
	if s.AllowEditor {
		options = append(options, "Edit")
	}
	options = append(options, "Quit")

	for ctx.Err() == nil {
		i, ok := Choose(screen, fmt.Sprintf("Open Tower  welcome, %s", s.Player), options)
		if !ok {
			return nil
		}
		var err error
		switch options[i] {
		case "Play":
			err = s.play(ctx, screen)
		case "Edit":
			err = s.edit(ctx, screen)
		case "Quit":
			return nil
		}
		if err != nil {
			s.Log.Error("session action failed", "action", options[i], "err", err)
			return err
		}
	}
	return ctx.Err()
}

func (s *Session) play(ctx context.Context, screen tcell.Screen) error {
	names, err := s.Repo.List(ctx)
	if err != nil {
		return err
	}
	i, ok := Choose(screen, "Choose a level", names)
	if !ok {
		return nil
	}
	err = s.PlayLevel(ctx, screen, names[i])
	if errors.Is(err, level.ErrInvalid) {
		s.Log.Info("level not playable", "level", names[i], "err", err)
		Notice(screen, fmt.Sprintf("%s cannot be played yet", names[i]), strings.Split(err.Error(), "\n"))
		return nil
	}
	return err
}

// PlayLevel loads the level called name and plays it.
func (s *Session) PlayLevel(ctx context.Context, screen tcell.Screen, name string) error {
	doc, err := s.Repo.Load(ctx, name)
	if err != nil {
		return err
	}
	g, err := game.New(doc, s.Sprites, s.Log.With("player", s.Player))
	if err != nil {
		return fmt.Errorf("level %q: %w", name, err)
	}
	Play(screen, g, s.Log.With("player", s.Player))
	return nil
}

func (s *Session) edit(ctx context.Context, screen tcell.Screen) error {
	names, err := s.Repo.List(ctx)
	if err != nil {
		return err
	}
	options := append([]string{newLevelOption}, names...)
	i, ok := Choose(screen, "Edit a level", options)
	if !ok {
		return nil
	}
	name := options[i]
	if i == 0 {
		name = newLevelName(s.Player, names)
	}
	return s.EditLevel(ctx, screen, name)
}

// EditLevel opens the level called name in the editor, creating it when it
// is not stored yet.
func (s *Session) EditLevel(ctx context.Context, screen tcell.Screen, name string) error {
	ed, err := s.openEditor(ctx, name)
	if err != nil {
		return err
	}
	NewEditor(ed, s.Repo, s.Log.With("player", s.Player)).Run(ctx, screen)
	return nil
}

func (s *Session) openEditor(ctx context.Context, name string) (*editor.Editor, error) {
	doc, err := s.Repo.Load(ctx, name)
	switch {
	case err == nil:
		return editor.FromDocument(doc, s.Sprites, s.Log)
	case errors.Is(err, store.ErrNotFound):
		ed, err := editor.New(name, s.Config.LevelWidth, s.Config.LevelHeight, s.Sprites, s.Log)
		if err != nil {
			return nil, err
		}
		if err := ed.SetPlayer(s.Config.Player); err != nil {
			return nil, err
		}
		return ed, nil
	}
	return nil, err
}

// newLevelName returns the first "<player>-N" not in taken. Path separators
// and leading dots are dropped from the player part so the name is storable.
func newLevelName(player string, taken []string) string {
	base := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return -1
		}
		return r
	}, player)
	base = strings.TrimLeft(base, ".")
	if base == "" {
		base = "level"
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s-%d", base, n)
		if !slices.Contains(taken, name) {
			return name
		}
	}
}
