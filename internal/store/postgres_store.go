package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists slots as rows of a single jsonb table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS state_records (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure state_records schema: %w", err)
	}
	return nil
}

// Load returns the raw JSON stored under key, or ok=false when absent.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM state_records WHERE key = $1 LIMIT 1`
	var raw []byte
	if err := s.db.GetContext(ctx, &raw, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load record %s: %w", key, err)
	}
	return raw, true, nil
}

// Save upserts the JSON serialization of value under key.
func (s *PostgresStore) Save(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", key, err)
	}

	const query = `INSERT INTO state_records (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := s.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("save record %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
