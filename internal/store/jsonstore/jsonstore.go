package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store/codec"
	"github.com/idilsaglam/combo/internal/store/filelock"
)

// JSON-backed storage. Single file, human-readable, portable.
// The file is locked for as long as the Store is open, so one combo
// process owns the state at a time.

const DataFileName = "state.json"

// ErrLocked means another process holds the state file.
var ErrLocked = filelock.ErrLocked

type Store struct {
	path string
	lock *os.File
	log  *zap.Logger
}

// Open locks path for exclusive use. The file itself need not exist yet.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	lock, err := filelock.Acquire(filelock.Path(path))
	if err != nil {
		return nil, err
	}
	return &Store{path: path, lock: lock, log: log}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads the state. A missing file is an empty state.
func (s *Store) Load(ctx context.Context) (*model.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no state file yet", zap.String("path", s.path))
			return model.NewState(), nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	st, err := codec.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.log.Debug("loaded state",
		zap.String("path", s.path),
		zap.Int("lists", len(st.Lists)),
		zap.Int("rules", len(st.InvalidCombinations)),
		zap.Int("history", len(st.History)))
	return st, nil
}

// Save replaces the file atomically.
func (s *Store) Save(ctx context.Context, st *model.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := codec.Encode(st)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	s.log.Debug("saved state", zap.String("path", s.path), zap.Int("bytes", len(b)))
	return nil
}

func (s *Store) Close() error {
	err := filelock.Release(s.lock)
	s.lock = nil
	return err
}

// atomicWriteFile writes to a temp file in the same directory and renames it
// over filename.
func atomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".tmp-state-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	ok = true
	return nil
}
