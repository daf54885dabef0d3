package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UpsertTrip creates or updates a trip record.
func (db *DB) UpsertTrip(ctx context.Context, t *Trip) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO trips (id, name, expected_size)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = $2, expected_size = $3`,
		t.ID, t.Name, t.ExpectedSize,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip, or nil when absent.
func (db *DB) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	t := &Trip{}
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, expected_size, created_at FROM trips WHERE id = $1`,
		tripID,
	).Scan(&t.ID, &t.Name, &t.ExpectedSize, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return t, nil
}

// ExpectedTripSize returns the roster-size hint for a trip, or 0 when the
// trip is unknown or carries no hint. It swallows lookup errors because
// coverage must degrade to the optimistic default, never fail.
func (db *DB) ExpectedTripSize(ctx context.Context, tripID string) int {
	var size int
	err := db.pool.QueryRow(ctx,
		`SELECT expected_size FROM trips WHERE id = $1`, tripID,
	).Scan(&size)
	if err != nil {
		return 0
	}
	return size
}
