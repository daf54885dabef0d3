// Package types provides type definitions for structured data used throughout the trip-consensus system.
package types

import "time"

// Well-known hard constraint keys.
const (
	ConstraintBudgetLevel  = "budget_level"
	ConstraintDealBreakers = "deal_breakers"
)

// VibeTags is the fixed set of canonical soft-preference tags.
var VibeTags = []string{"adventure", "food", "nightlife", "culture", "relax", "nature"}

// Legal range for per-user soft weights. Ingestion clamps into this range.
const (
	MinSoftWeight = 0.5
	MaxSoftWeight = 0.9
)

// ProfileKey identifies one member's profile within a trip.
type ProfileKey struct {
	TripID string
	UserID string
}

// PreferenceProfile is a member's normalized preference state for a trip.
// At most one profile exists per (trip, user); re-ingestion replaces it whole.
type PreferenceProfile struct {
	TripID    string             `json:"trip_id"`
	UserID    string             `json:"user_id"`
	Hard      map[string]string  `json:"hard_constraints"`
	Soft      map[string]float64 `json:"soft_preferences"`
	Summary   string             `json:"summary"`
	Embedding []float32          `json:"-"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Key returns the profile's identity key.
func (p *PreferenceProfile) Key() ProfileKey {
	return ProfileKey{TripID: p.TripID, UserID: p.UserID}
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (p *PreferenceProfile) Clone() *PreferenceProfile {
	cp := &PreferenceProfile{
		TripID:    p.TripID,
		UserID:    p.UserID,
		Summary:   p.Summary,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Hard != nil {
		cp.Hard = make(map[string]string, len(p.Hard))
		for k, v := range p.Hard {
			cp.Hard[k] = v
		}
	}
	if p.Soft != nil {
		cp.Soft = make(map[string]float64, len(p.Soft))
		for k, v := range p.Soft {
			cp.Soft[k] = v
		}
	}
	if p.Embedding != nil {
		cp.Embedding = make([]float32, len(p.Embedding))
		copy(cp.Embedding, p.Embedding)
	}
	return cp
}
