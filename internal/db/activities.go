package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ActivityFilter narrows an activity listing.
type ActivityFilter struct {
	Category string
	MinScore *float64
	Limit    int
}

// CreateActivity stores a candidate activity for a trip and returns its ID.
func (db *DB) CreateActivity(ctx context.Context, a *Activity) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO activities (trip_id, name, category, description, score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.TripID, a.Name, a.Category, a.Description, a.Score,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return id, nil
}

// ListActivities returns a trip's activities sorted by score descending,
// optionally filtered by category and minimum score.
func (db *DB) ListActivities(ctx context.Context, tripID string, filter ActivityFilter) ([]Activity, error) {
	query := `SELECT id, trip_id, name, category, description, score, created_at
	          FROM activities WHERE trip_id = $1`
	args := []any{tripID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.MinScore != nil {
		args = append(args, *filter.MinScore)
		query += fmt.Sprintf(" AND score >= $%d", len(args))
	}
	query += " ORDER BY score DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.TripID, &a.Name, &a.Category, &a.Description, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	return activities, nil
}
