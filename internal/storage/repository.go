// Package storage persists the task history through a Repository backed by a
// YAML document in blob storage or by a SQLite database, and converts it to and
// from the JSON export format.
package storage

import (
	"context"

	"github.com/abatilo/clarity/internal/blob"
	clarityerrors "github.com/abatilo/clarity/internal/errors"
	"github.com/abatilo/clarity/internal/task"
)

// Backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Repository loads and saves the whole task history. Save replaces what was
// stored and Load returns tasks in the order they were saved.
type Repository interface {
	Load(ctx context.Context) ([]task.Task, error)
	Save(ctx context.Context, tasks []task.Task) error
	Close() error
}

// Options selects and locates a backend.
type Options struct {
	Backend string
	Dir     string
	Blob    string
	S3      blob.S3Options
}

// Open returns the Repository for opts.Backend.
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch opts.Backend {
	case "", BackendYAML:
		store, err := blob.Open(ctx, opts.Blob, opts.Dir, opts.S3)
		if err != nil {
			return nil, err
		}
		return NewYAMLRepository(store), nil
	case BackendSQLite:
		return OpenSQLite(opts.Dir)
	default:
		return nil, clarityerrors.InvalidBackendError{Value: opts.Backend}
	}
}
