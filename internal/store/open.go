package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"open-tower/internal/config"
	"open-tower/internal/level"
)

// Open builds the repository selected by cfg. For postgres the migrations
// run first. The returned close function releases the backend.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverFile:
		files, err := NewFileStore(cfg.Dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return files, func() {}, nil
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(ctx, dsn); err != nil {
			return nil, nil, err
		}
		pg, err := OpenPG(ctx, dsn, cfg.Database.MaxConns, logger)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Seed saves doc unless a level with its name is already stored.
func Seed(ctx context.Context, repo Repository, doc *level.Document) error {
	names, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(names, doc.Name) {
		return nil
	}
	return repo.Save(ctx, doc)
}
