// open-tower-server serves Open Tower over SSH. Build:
//
//	go build -o open-tower-server ./cmd/server
//
// Usage:
//
//	./open-tower-server [-config opentower.yaml] [-port 2222] [-key server_host_key]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"open-tower/assets"
	"open-tower/internal/app"
	"open-tower/internal/config"
	"open-tower/internal/level"
	internalssh "open-tower/internal/ssh"
	"open-tower/internal/sprite"
	"open-tower/internal/store"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.Path("opentower.yaml"), "Path to the YAML config file")
	port := flag.Int("port", 0, "SSH server port (overrides config)")
	keyFile := flag.String("key", "", "PEM host key path, generated if absent (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *keyFile != "" {
		cfg.Server.HostKey = *keyFile
	}
	lvl, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := store.Open(ctx, cfg.Storage, slog.Default())
	if err != nil {
		return err
	}
	defer closeRepo()
	if err := seedTutorial(ctx, repo); err != nil {
		return err
	}

	signer, err := loadOrCreateHostKey(cfg.Server.HostKey)
	if err != nil {
		return err
	}

	h := &handler{
		cfg:     cfg,
		repo:    repo,
		sprites: sprite.Default(),
		slots:   make(chan struct{}, cfg.Server.MaxSessions),
	}
	srv := &gossh.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     h.serve,
		PtyCallback: func(gossh.Context, gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{signer},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func seedTutorial(ctx context.Context, repo store.Repository) error {
	doc, err := level.Load(assets.FS, assets.TutorialLevel)
	if err != nil {
		return err
	}
	return store.Seed(ctx, repo, doc)
}

type handler struct {
	cfg     config.Config
	repo    store.Repository
	sprites *sprite.Registry
	slots   chan struct{}
}

// serve is the gliderlabs handler for one connection. It blocks for the
// duration of the session.
func (h *handler) serve(s gossh.Session) {
	name := internalssh.SanitizeName(s.User())
	if name == "" {
		name = "player"
	}
	log := slog.With("player", name, "remote", s.RemoteAddr().String())

	select {
	case h.slots <- struct{}{}:
		defer func() { <-h.slots }()
	default:
		fmt.Fprintln(s, "The tower is full. Try again later.")
		log.Warn("session refused", "reason", "max sessions")
		return
	}

	screen, err := internalssh.NewScreen(s)
	if err != nil {
		if errors.Is(err, internalssh.ErrNoPTY) {
			fmt.Fprintln(s, "Open Tower needs a terminal. Connect with: ssh -t -p <port> <host>")
		} else {
			fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		}
		log.Warn("session refused", "err", err)
		return
	}
	defer screen.Fini()

	log.Info("session started")
	sess := &app.Session{
		Player:      name,
		Repo:        h.repo,
		Sprites:     h.sprites,
		Config:      h.cfg,
		AllowEditor: h.cfg.Server.AllowEditor,
		Log:         log,
	}
	if err := sess.Run(s.Context(), screen); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("session ended with error", "err", err)
		return
	}
	log.Info("session ended")
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			slog.Info("loaded host key", "path", path)
			return signer, nil
		}
	}

	slog.Info("generating ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	block, err := xssh.MarshalPrivateKey(key, "open-tower server")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		slog.Warn("host key not persisted", "path", path, "err", err)
	}
	return signer, nil
}
