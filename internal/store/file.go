package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"open-tower/internal/level"
)

const fileExt = ".yaml"

// FileStore keeps one YAML file per level in a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	log *slog.Logger
}

var _ Repository = (*FileStore)(nil)

// NewFileStore creates dir if needed and returns a store over it.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating level dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, log: logger.With("store", "file")}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes doc to a temporary file and renames it into place.
func (s *FileStore) Save(_ context.Context, doc *level.Document) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".level-*")
	if err != nil {
		return fmt.Errorf("saving level %q: %w", doc.Name, err)
	}
	defer os.Remove(tmp.Name())
	if err := doc.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving level %q: %w", doc.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(doc.Name)); err != nil {
		return fmt.Errorf("saving level %q: %w", doc.Name, err)
	}
	s.log.Info("level saved", "name", doc.Name)
	return nil
}

// Load reads the level called name.
func (s *FileStore) Load(_ context.Context, name string) (*level.Document, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("loading level %q: %w", name, err)
	}
	defer f.Close()
	return level.Decode(f)
}

// List returns the stored level names in order.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing levels: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the level called name.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("deleting level %q: %w", name, err)
	}
	s.log.Info("level deleted", "name", name)
	return nil
}
