// Package store opens the configured state backend.
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store/jsonstore"
	"github.com/idilsaglam/combo/internal/store/sqlitestore"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store persists the whole state tree. Implementations load and save it as
// one unit.
type Store interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, st *model.State) error
	Path() string
	Close() error
}

// Backends lists the supported backend names.
func Backends() []string { return []string{BackendJSON, BackendSQLite} }

// DefaultPath is where a backend keeps its data inside dir.
func DefaultPath(backend, dir string) string {
	if backend == BackendSQLite {
		return filepath.Join(dir, sqlitestore.DataFileName)
	}
	return filepath.Join(dir, jsonstore.DataFileName)
}

// Open opens backend at path.
func Open(backend, path string, log *zap.Logger) (Store, error) {
	switch backend {
	case BackendJSON, "":
		s, err := jsonstore.Open(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := sqlitestore.Open(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want one of %v)", backend, Backends())
	}
}

// Update loads the state, applies fn and saves the result if fn succeeds.
func Update(ctx context.Context, s Store, fn func(*model.State) error) (*model.State, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if err := fn(st); err != nil {
		return st, err
	}
	if err := s.Save(ctx, st); err != nil {
		return st, fmt.Errorf("save: %w", err)
	}
	return st, nil
}
