package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// SQLiteStore keeps the document in a single-row table of a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLiteStore opens (or creates) the database at path and ensures the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, persistErr("sqlite", "open", fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err))
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, persistErr("sqlite", "open", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS filter_config (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		document   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, persistErr("sqlite", "init schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.FilterConfiguration, error) {
	return s.read(ctx, s.db)
}

func (s *SQLiteStore) Save(ctx context.Context, cfg *models.FilterConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, s.db, cfg)
}

func (s *SQLiteStore) Update(ctx context.Context, fn MutateFunc) (*models.FilterConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistErr("sqlite", "update", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	cfg, err := s.read(ctx, tx)
	if err != nil {
		return nil, err
	}
	changed, err := fn(cfg)
	if err != nil {
		return nil, err
	}
	if !changed {
		return cfg, nil
	}
	if err := s.write(ctx, tx, cfg); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, persistErr("sqlite", "update", fmt.Errorf("commit: %w", err))
	}
	return cfg, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqlExecer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) read(ctx context.Context, q sqlExecer) (*models.FilterConfiguration, error) {
	var data string
	err := q.QueryRowContext(ctx, "SELECT document FROM filter_config WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultConfiguration(), nil
	}
	if err != nil {
		return nil, persistErr("sqlite", "load", err)
	}
	cfg, err := Decode([]byte(data))
	if err != nil {
		return nil, persistErr("sqlite", "load", err)
	}
	return cfg, nil
}

func (s *SQLiteStore) write(ctx context.Context, q sqlExecer, cfg *models.FilterConfiguration) error {
	data, err := Encode(cfg)
	if err != nil {
		return persistErr("sqlite", "save", err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO filter_config (id, document, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return persistErr("sqlite", "save", err)
	}
	return nil
}
