package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// MutateFunc edits cfg in place and reports whether anything changed. It may be
// called more than once for a single Update when a backend retries on conflict, so
// it must derive everything from the cfg it is handed.
type MutateFunc func(cfg *models.FilterConfiguration) (changed bool, err error)

// Store persists the single filter configuration document.
type Store interface {
	// Load returns the current configuration, or the defaults if nothing was saved yet.
	Load(ctx context.Context) (*models.FilterConfiguration, error)
	// Save replaces the whole document.
	Save(ctx context.Context, cfg *models.FilterConfiguration) error
	// Update runs a serialized read-modify-write and returns the resulting configuration.
	Update(ctx context.Context, fn MutateFunc) (*models.FilterConfiguration, error)
	Close() error
}

// ErrConflict is returned when optimistic retries are exhausted.
var ErrConflict = errors.New("concurrent modification")

// PersistenceError reports that the configuration could not be read or written.
type PersistenceError struct {
	Backend string
	Op      string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s store %s: %v", e.Backend, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(backend, op string, err error) error {
	return &PersistenceError{Backend: backend, Op: op, Err: err}
}

// IsPersistence reports whether err is, or wraps, a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
