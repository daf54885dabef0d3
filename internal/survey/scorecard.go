// Package survey turns raw submission fields into engine-ready survey input.
// Weight derivation from ordered vibe cards is caller-side policy: the
// preference engine accepts whatever weight map it is handed.
package survey

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/trip-consensus/internal/preference"
	"github.com/jonathan/trip-consensus/internal/types"
)

// canonicalVibes maps accepted card names to engine tags.
var canonicalVibes = func() map[string]string {
	m := make(map[string]string, len(types.VibeTags))
	for _, tag := range types.VibeTags {
		m[tag] = tag
	}
	return m
}()

// ScorecardFromVibes converts an ordered vibe-card selection into a weight
// map: 0.9 for the first card, decreasing by 0.1 per position, floored at
// 0.5. Unknown cards are skipped; at most the 6 canonical vibes apply.
func ScorecardFromVibes(vibes []string) map[string]float64 {
	normalized := make([]string, 0, len(vibes))
	for _, v := range vibes {
		key := strings.ToLower(strings.TrimSpace(v))
		if tag, ok := canonicalVibes[key]; ok {
			normalized = append(normalized, tag)
		}
	}
	if len(normalized) > len(types.VibeTags) {
		normalized = normalized[:len(types.VibeTags)]
	}

	out := make(map[string]float64, len(normalized))
	for i, tag := range normalized {
		weight := math.Round((0.9-0.1*float64(i))*10) / 10
		if weight < types.MinSoftWeight {
			weight = types.MinSoftWeight
		}
		out[tag] = weight
	}
	return out
}

// BuildFreeText assembles the text to embed from the selected vibes and the
// member's notes.
func BuildFreeText(vibes []string, notes string) string {
	var bits []string
	if len(vibes) > 0 {
		bits = append(bits, strings.Join(vibes, " "))
	}
	if strings.TrimSpace(notes) != "" {
		bits = append(bits, notes)
	}
	return strings.Join(bits, " ")
}

// InputFromRequest shapes a preference request into the engine's survey
// input: weighted scorecard, normalized deal breakers, and free text.
func InputFromRequest(req *types.PreferenceRequest) types.SurveyInput {
	hard := make(map[string]string)
	if req.BudgetLevel != nil {
		hard[types.ConstraintBudgetLevel] = strconv.Itoa(*req.BudgetLevel)
	}
	if breakers := preference.NormalizeDealBreakers(req.DealBreaker); len(breakers) > 0 {
		hard[types.ConstraintDealBreakers] = strings.Join(breakers, ", ")
	}

	return types.SurveyInput{
		Text: BuildFreeText(req.Vibes, req.Notes),
		Hard: hard,
		Soft: ScorecardFromVibes(req.Vibes),
	}
}
