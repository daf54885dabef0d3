package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertPreference inserts a member's submission or overwrites the existing
// row for the same (trip_id, user_id), returning the row ID.
func (db *DB) UpsertPreference(ctx context.Context, p *Preference) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO preferences (trip_id, user_id, budget_level, vibes, deal_breaker, notes, available_dates)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (trip_id, user_id) DO UPDATE SET
		   budget_level = $3, vibes = $4, deal_breaker = $5, notes = $6,
		   available_dates = $7, updated_at = NOW()
		 RETURNING id`,
		p.TripID, p.UserID, p.BudgetLevel, p.Vibes, p.DealBreaker, p.Notes, p.AvailableDates,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert preference: %w", err)
	}
	return id, nil
}

// GetPreference retrieves a member's submission, or nil when absent.
func (db *DB) GetPreference(ctx context.Context, tripID, userID string) (*Preference, error) {
	p := &Preference{}
	err := db.pool.QueryRow(ctx,
		`SELECT id, trip_id, user_id, budget_level, vibes, deal_breaker, notes, available_dates, created_at, updated_at
		 FROM preferences WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID,
	).Scan(&p.ID, &p.TripID, &p.UserID, &p.BudgetLevel, &p.Vibes, &p.DealBreaker,
		&p.Notes, &p.AvailableDates, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return p, nil
}

// ListPreferencesByTrip returns every submission for a trip, oldest first, so
// replaying them reproduces the engine's member order.
func (db *DB) ListPreferencesByTrip(ctx context.Context, tripID string) ([]Preference, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, trip_id, user_id, budget_level, vibes, deal_breaker, notes, available_dates, created_at, updated_at
		 FROM preferences WHERE trip_id = $1 ORDER BY created_at ASC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.ID, &p.TripID, &p.UserID, &p.BudgetLevel, &p.Vibes,
			&p.DealBreaker, &p.Notes, &p.AvailableDates, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	return prefs, nil
}

// DeletePreference removes a member's submission.
func (db *DB) DeletePreference(ctx context.Context, tripID, userID string) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM preferences WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("preference not found: %s/%s", tripID, userID)
	}
	return nil
}
