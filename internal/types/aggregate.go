package types

// Conflict flags an incompatibility between member constraints.
// Conflicts are data surfaced in the aggregate, never errors.
type Conflict struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// TripAggregate is the consensus view over every profile in a trip.
// It is derived on demand, never stored.
type TripAggregate struct {
	TripID          string              `json:"trip_id"`
	Members         []string            `json:"members"`
	SoftMean        map[string]float64  `json:"soft_preferences"`
	HardUnion       map[string][]string `json:"hard_constraints"`
	Conflicts       []Conflict          `json:"conflicts"`
	Coverage        float64             `json:"coverage"`
	ReadyForOptions bool                `json:"ready_for_options"`
}
