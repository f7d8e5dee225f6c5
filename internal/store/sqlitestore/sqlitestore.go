// Package sqlitestore keeps the state tree in a SQLite key/value table,
// under the same root key the JSON backend uses. The database is locked for
// as long as the Store is open, so one combo process owns the state.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store/codec"
	"github.com/idilsaglam/combo/internal/store/filelock"
)

const DataFileName = "state.db"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store implements the state store on SQLite.
type Store struct {
	db        *sql.DB
	lock      *os.File
	path      string
	log       *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// Open locks path, then creates or opens the database and applies the
// schema. A path held by another process returns filelock.ErrLocked.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	lock, err := filelock.Acquire(filelock.Path(path))
	if err != nil {
		return nil, err
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		filelock.Release(lock)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		filelock.Release(lock)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		filelock.Release(lock)
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, lock: lock, path: path, log: log}, nil
}

func (s *Store) Path() string { return s.path }

// Load returns the stored state, or an empty one if nothing was saved yet.
func (s *Store) Load(ctx context.Context) (*model.State, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, codec.RootKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug("no state row yet", zap.String("path", s.path))
		return model.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	st, err := codec.Decode([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	s.log.Debug("loaded state",
		zap.String("path", s.path),
		zap.Int("lists", len(st.Lists)),
		zap.Int("rules", len(st.InvalidCombinations)))
	return st, nil
}

// Save upserts the whole tree in one statement.
func (s *Store) Save(ctx context.Context, st *model.State) error {
	b, err := codec.Encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		codec.RootKey, string(b), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	s.log.Debug("saved state", zap.String("path", s.path), zap.Int("bytes", len(b)))
	return nil
}

// Close is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.db.Close(), filelock.Release(s.lock))
	})
	return s.closeErr
}
