package db

import (
	"time"

	"github.com/google/uuid"
)

// Preference is one member's raw submission row, keyed uniquely by
// (trip_id, user_id). Updates overwrite in place.
type Preference struct {
	ID             uuid.UUID `json:"id"`
	TripID         string    `json:"trip_id"`
	UserID         string    `json:"user_id"`
	BudgetLevel    *int      `json:"budget_level,omitempty"`
	Vibes          []string  `json:"vibes"`
	DealBreaker    string    `json:"deal_breaker,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	AvailableDates []string  `json:"available_dates"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Trip is a trip record; ExpectedSize is the roster-size hint used for
// aggregate coverage (0 means unknown).
type Trip struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ExpectedSize int       `json:"expected_size"`
	CreatedAt    time.Time `json:"created_at"`
}

// Activity is a stored candidate item for a trip.
type Activity struct {
	ID          uuid.UUID `json:"id"`
	TripID      string    `json:"trip_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}
