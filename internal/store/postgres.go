package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresKV backs the store with a single key-value table in Postgres. The
// whole-collection-per-key contract stays identical to the Redis backend, so
// callers never notice which one is wired in.
type PostgresKV struct {
	db *sqlx.DB
}

// NewPostgresKV connects to the database and ensures the kv table exists.
func NewPostgresKV(databaseURL string) (*PostgresKV, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &PostgresKV{db: db}, nil
}

// Get retrieves the value at key. A missing row is reported as ok=false.
func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.GetContext(ctx, &value, "SELECT v FROM kv WHERE k = $1", key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts the value at key.
func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO kv (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = $2, updated_at = NOW()",
		key, value)
	return err
}

// Close closes the database connection.
func (p *PostgresKV) Close() error {
	return p.db.Close()
}
