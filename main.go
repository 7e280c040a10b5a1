// open-tower plays and edits Open Tower levels in the local terminal.
//
//	open-tower                 main menu
//	open-tower -level tutorial play one level
//	open-tower -edit mytower   edit (or create) one level
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"open-tower/assets"
	"open-tower/internal/app"
	"open-tower/internal/config"
	"open-tower/internal/level"
	"open-tower/internal/sprite"
	"open-tower/internal/store"

	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.Path("opentower.yaml"), "Path to the YAML config file")
	editName := flag.String("edit", "", "Open the named level in the editor")
	levelName := flag.String("level", "", "Play the named level")
	logFile := flag.String("log", "", "Write logs to this file instead of discarding them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// The terminal belongs to tcell, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	lvl, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo, closeRepo, err := store.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeRepo()
	tutorial, err := level.Load(assets.FS, assets.TutorialLevel)
	if err != nil {
		return err
	}
	if err := store.Seed(ctx, repo, tutorial); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	name := os.Getenv("USER")
	if name == "" {
		name = "player"
	}
	sess := &app.Session{
		Player:      name,
		Repo:        repo,
		Sprites:     sprite.Default(),
		Config:      cfg,
		AllowEditor: true,
		Log:         logger,
	}
	switch {
	case *editName != "":
		return sess.EditLevel(ctx, screen, *editName)
	case *levelName != "":
		return sess.PlayLevel(ctx, screen, *levelName)
	}
	return sess.Run(ctx, screen)
}
