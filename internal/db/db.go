// Package db provides PostgreSQL persistence for raw preference submissions,
// trips, and activity candidates. The preference engine itself stays
// in-memory; this layer is the durable record the server replays from.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables this service needs if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trips (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			expected_size INT  NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trip_id         TEXT NOT NULL,
			user_id         TEXT NOT NULL,
			budget_level    INT,
			vibes           TEXT[] NOT NULL DEFAULT '{}',
			deal_breaker    TEXT NOT NULL DEFAULT '',
			notes           TEXT NOT NULL DEFAULT '',
			available_dates TEXT[] NOT NULL DEFAULT '{}',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (trip_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trip_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			score       DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
