// Package store persists level documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"open-tower/internal/level"
)

var (
	// ErrNotFound is returned when no level has the requested name.
	ErrNotFound = errors.New("level not found")
	// ErrBadName is returned for names that cannot identify a level.
	ErrBadName = errors.New("invalid level name")
)

// Repository stores level documents by name. Saving a name that exists
// replaces the stored document.
type Repository interface {
	Save(ctx context.Context, doc *level.Document) error
	Load(ctx context.Context, name string) (*level.Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// checkName rejects empty names and names that would escape a directory.
func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrBadName)
	case len(name) > 64:
		return fmt.Errorf("%w: longer than 64 bytes", ErrBadName)
	case strings.ContainsAny(name, `/\`), strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// checkDocument validates doc before it is stored. Drafts without a player
// may be saved.
func checkDocument(doc *level.Document) error {
	if err := checkName(doc.Name); err != nil {
		return err
	}
	return doc.Check()
}
