package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// configLockKey is the advisory lock id that serializes writers across instances.
const configLockKey int64 = 0x7466636667

// PostgresStore keeps the document in the single-row filter_config table created by
// migrations/001_filter_config.sql.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (*models.FilterConfiguration, error) {
	return loadRow(s.db.QueryRow(ctx, "SELECT document FROM filter_config WHERE id = 1"))
}

func (s *PostgresStore) Save(ctx context.Context, cfg *models.FilterConfiguration) error {
	data, err := Encode(cfg)
	if err != nil {
		return persistErr("postgres", "save", err)
	}
	if _, err := s.db.Exec(ctx, upsertConfigSQL, data); err != nil {
		return persistErr("postgres", "save", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, fn MutateFunc) (*models.FilterConfiguration, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, persistErr("postgres", "update", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", configLockKey); err != nil {
		return nil, persistErr("postgres", "update", fmt.Errorf("acquire lock: %w", err))
	}

	cfg, err := loadRow(tx.QueryRow(ctx, "SELECT document FROM filter_config WHERE id = 1"))
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

	data, err := Encode(cfg)
	if err != nil {
		return nil, persistErr("postgres", "update", err)
	}
	if _, err := tx.Exec(ctx, upsertConfigSQL, data); err != nil {
		return nil, persistErr("postgres", "update", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, persistErr("postgres", "update", fmt.Errorf("commit: %w", err))
	}
	return cfg, nil
}

// Close is a no-op; the pool belongs to the caller.
func (s *PostgresStore) Close() error { return nil }

const upsertConfigSQL = `
	INSERT INTO filter_config (id, document, updated_at) VALUES (1, $1, now())
	ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`

func loadRow(row pgx.Row) (*models.FilterConfiguration, error) {
	var data []byte
	err := row.Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultConfiguration(), nil
	}
	if err != nil {
		return nil, persistErr("postgres", "load", err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, persistErr("postgres", "load", err)
	}
	return cfg, nil
}
