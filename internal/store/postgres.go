package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"open-tower/internal/level"
	"open-tower/internal/store/migrations"
)

// PGStore keeps levels in PostgreSQL, one JSONB document per row.
type PGStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ Repository = (*PGStore)(nil)

// OpenPG connects to PostgreSQL and returns a store. maxConns caps the pool
// when positive.
func OpenPG(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*PGStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PGStore{pool: pool, log: logger.With("store", "postgres")}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

// RunMigrations applies the embedded goose migrations on dsn.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Save upserts doc.
func (s *PGStore) Save(ctx context.Context, doc *level.Document) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO levels (name, document) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		doc.Name, doc,
	)
	if err != nil {
		return fmt.Errorf("saving level %q: %w", doc.Name, err)
	}
	s.log.Info("level saved", "name", doc.Name)
	return nil
}

// Load fetches the level called name.
func (s *PGStore) Load(ctx context.Context, name string) (*level.Document, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var doc level.Document
	err := s.pool.QueryRow(ctx, `SELECT document FROM levels WHERE name = $1`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("loading level %q: %w", name, err)
	}
	return &doc, nil
}

// List returns the stored level names in order.
func (s *PGStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM levels ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan level names: %w", err)
	}
	return names, nil
}

// Delete removes the level called name.
func (s *PGStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM levels WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting level %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.log.Info("level deleted", "name", name)
	return nil
}
