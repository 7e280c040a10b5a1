package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-tower/assets"
	"open-tower/internal/config"
	"open-tower/internal/level"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func tutorial(t *testing.T) *level.Document {
	t.Helper()
	doc, err := level.Load(assets.FS, assets.TutorialLevel)
	require.NoError(t, err)
	return doc
}

// exerciseRepository runs the behaviour every Repository shares.
func exerciseRepository(t *testing.T, repo Repository, prefix string) {
	ctx := context.Background()
	doc := tutorial(t)
	doc.Name = prefix + "tutorial"

	_, err := repo.Load(ctx, doc.Name)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(ctx, doc))
	got, err := repo.Load(ctx, doc.Name)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	doc.Player.Life = 777
	require.NoError(t, repo.Save(ctx, doc), "saving twice replaces")
	got, err = repo.Load(ctx, doc.Name)
	require.NoError(t, err)
	assert.Equal(t, 777, got.Player.Life)

	other := tutorial(t)
	other.Name = prefix + "another"
	require.NoError(t, repo.Save(ctx, other))
	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Subset(t, names, []string{other.Name, doc.Name})

	require.NoError(t, repo.Delete(ctx, doc.Name))
	require.ErrorIs(t, repo.Delete(ctx, doc.Name), ErrNotFound)
	_, err = repo.Load(ctx, doc.Name)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, repo.Delete(ctx, other.Name))

	bad := tutorial(t)
	bad.Name = "../escape"
	require.ErrorIs(t, repo.Save(ctx, bad), ErrBadName)
	bad.Name = prefix + "broken"
	bad.Width = 0
	require.ErrorIs(t, repo.Save(ctx, bad), level.ErrInvalid)
}

func TestFileStore(t *testing.T) {
	repo, err := NewFileStore(t.TempDir(), discard())
	require.NoError(t, err)
	exerciseRepository(t, repo, "")
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileStore(dir, discard())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".level-123"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, tutorial(t)))
	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tutorial"}, names)
}

func TestCheckName(t *testing.T) {
	for _, name := range []string{"", "  ", "a/b", `a\b`, ".hidden", string(make([]byte, 65))} {
		assert.ErrorIs(t, checkName(name), ErrBadName, "name %q", name)
	}
	assert.NoError(t, checkName("Tower of Trials 2"))
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileStore(t.TempDir(), discard())
	require.NoError(t, err)

	doc := tutorial(t)
	require.NoError(t, Seed(ctx, repo, doc))
	doc.Player.Life = 1
	require.NoError(t, Seed(ctx, repo, doc))

	got, err := repo.Load(ctx, doc.Name)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Player.Life, "seeding keeps the stored level")
}

func TestOpenFileDriver(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Dir = filepath.Join(t.TempDir(), "levels")
	repo, closeFn, err := Open(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &FileStore{}, repo)
	assert.DirExists(t, cfg.Dir)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Driver = "redis"
	_, _, err := Open(context.Background(), cfg, discard())
	assert.Error(t, err)
}

// TestPGStore runs against a real database named by OPENTOWER_TEST_DSN.
func TestPGStore(t *testing.T) {
	dsn := os.Getenv("OPENTOWER_TEST_DSN")
	if dsn == "" {
		t.Skip("OPENTOWER_TEST_DSN not set")
	}
	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, dsn))
	repo, err := OpenPG(ctx, dsn, 2, discard())
	require.NoError(t, err)
	defer repo.Close()

	exerciseRepository(t, repo, "pgtest-")
}
