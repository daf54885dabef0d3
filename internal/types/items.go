package types

// ItemCandidate is an externally supplied activity or place to be scored.
// The scorer never mutates candidates.
type ItemCandidate struct {
	ID        string            `json:"id"`
	Category  string            `json:"category"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ScoredItem is one ranked candidate. Similarity is raw cosine in [-1, 1];
// Blended additionally folds in the soft-preference tag match and is what
// results are ordered by.
type ScoredItem struct {
	ItemID     string  `json:"item_id"`
	Category   string  `json:"category,omitempty"`
	Similarity float64 `json:"similarity"`
	Blended    float64 `json:"blended"`
}
