package types

import (
	"github.com/go-playground/validator/v10"
)

// SurveyInput is the already-validated payload handed to the preference engine.
// Hard maps constraint keys to string values (comma-joined for multi-valued
// constraints); Soft maps vibe tags to weights the caller derived from ordered
// card selections. The engine accepts arbitrary weight maps and clamps rather
// than re-deriving them.
type SurveyInput struct {
	Text string             `json:"text"`
	Hard map[string]string  `json:"hard"`
	Soft map[string]float64 `json:"soft"`
}

// PreferenceRequest is the HTTP/CLI request to add or update a member's survey answers.
type PreferenceRequest struct {
	TripID         string   `json:"trip_id,omitempty"`
	UserID         string   `json:"user_id" validate:"required,min=1"`
	BudgetLevel    *int     `json:"budget_level,omitempty" validate:"omitempty,gte=1,lte=4"`
	Vibes          []string `json:"vibes,omitempty" validate:"max=6"`
	DealBreaker    string   `json:"deal_breaker,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	AvailableDates []string `json:"available_dates,omitempty"`
}

// Validate validates the PreferenceRequest using the validator.
func (r *PreferenceRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
