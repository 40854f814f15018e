package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the optional Postgres delivery archive.
type DB struct {
	Pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS deliveries (
    id         UUID PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL,
    purpose    TEXT NOT NULL,
    channel    TEXT NOT NULL,
    recipient  TEXT NOT NULL,
    address    TEXT NOT NULL,
    subject    TEXT NOT NULL DEFAULT '',
    body       TEXT NOT NULL,
    status     TEXT NOT NULL,
    last_error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS deliveries_created_at_idx ON deliveries (created_at DESC);`

func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the deliveries table if it does not exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (d *DB) Close() {
	d.Pool.Close()
}
