// Package scoring ranks item candidates against a preference query vector.
package scoring

import (
	"sort"
	"strings"

	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/jonathan/trip-consensus/internal/vectorindex"
)

// DefaultAlpha is the cosine weight in the blended score; the remainder goes
// to the soft-preference tag match.
const DefaultAlpha = 0.7

// Options tune the blended score.
type Options struct {
	// Alpha weights cosine similarity against the tag match term. 1 means
	// pure similarity. Values outside [0, 1] are clamped.
	Alpha float64
	// Soft is the vibe weight map (a user's, or the trip's soft_mean) used
	// for the tag match term. Nil disables blending regardless of Alpha.
	Soft map[string]float64
}

// RankItems scores every candidate against the query vector and returns them
// sorted by descending blended score, ties broken by candidate input order.
// Truncation to top-N is the caller's choice; the full ranking is returned.
func RankItems(query []float32, candidates []types.ItemCandidate, opts Options) []types.ScoredItem {
	alpha := opts.Alpha
	if opts.Soft == nil {
		alpha = 1
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	scored := make([]types.ScoredItem, 0, len(candidates))
	for _, c := range candidates {
		similarity := vectorindex.Cosine(query, c.Embedding)
		blended := alpha*similarity + (1-alpha)*tagMatchScore(c.Category, opts.Soft)
		scored = append(scored, types.ScoredItem{
			ItemID:     c.ID,
			Category:   c.Category,
			Similarity: similarity,
			Blended:    blended,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Blended > scored[j].Blended
	})
	return scored
}

// tagMatchScore rewards candidates whose category matches a weighted vibe
// tag, remapping the [0.5, 0.9] weight range onto [0, 1]. A category no one
// weighted scores 0.
func tagMatchScore(category string, soft map[string]float64) float64 {
	if len(soft) == 0 {
		return 0
	}
	weight, ok := soft[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return 0
	}

	score := (weight - types.MinSoftWeight) / (types.MaxSoftWeight - types.MinSoftWeight)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
