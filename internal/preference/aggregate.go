package preference

import (
	"github.com/jonathan/trip-consensus/internal/types"
)

// ReadinessCoverage is the coverage fraction at or above which a conflict-free
// trip is ready for option generation.
const ReadinessCoverage = 0.8

// Aggregate computes the consensus view over every profile in the trip. It is
// a pure function of current store state: a trip with no profiles yields an
// aggregate with empty members, which callers map to not-found. It never
// errors.
func (e *Engine) Aggregate(tripID string) types.TripAggregate {
	e.mu.RLock()
	members := append([]string(nil), e.tripMembers[tripID]...)
	profiles := make([]*types.PreferenceProfile, 0, len(members))
	for _, userID := range members {
		if p := e.profiles[types.ProfileKey{TripID: tripID, UserID: userID}]; p != nil {
			profiles = append(profiles, p)
		}
	}
	e.mu.RUnlock()

	agg := types.TripAggregate{
		TripID:    tripID,
		Members:   members,
		SoftMean:  make(map[string]float64),
		HardUnion: make(map[string][]string),
		Conflicts: []types.Conflict{},
	}
	if len(members) == 0 {
		return agg
	}

	agg.SoftMean = softMean(profiles)
	agg.HardUnion = hardUnion(profiles)

	for _, rule := range e.rules {
		agg.Conflicts = append(agg.Conflicts, rule(profiles)...)
	}

	expected := len(members)
	if e.expectedSize != nil {
		if n := e.expectedSize(tripID); n > 0 {
			expected = n
		}
	}
	agg.Coverage = float64(len(members)) / float64(expected)
	if agg.Coverage > 1 {
		agg.Coverage = 1
	}

	agg.ReadyForOptions = agg.Coverage >= ReadinessCoverage && len(agg.Conflicts) == 0
	return agg
}

// softMean averages each vibe tag over the members that expressed it. Tags no
// member mentioned are absent, not zero.
func softMean(profiles []*types.PreferenceProfile) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range profiles {
		for tag, weight := range p.Soft {
			sums[tag] += weight
			counts[tag]++
		}
	}

	mean := make(map[string]float64, len(sums))
	for tag, sum := range sums {
		mean[tag] = sum / float64(counts[tag])
	}
	return mean
}

// hardUnion collects the distinct values contributed for each constraint,
// preserving first-seen order across members in submission order. Deal-breaker
// values are comma-joined lists, so they union item by item rather than as
// opaque strings.
func hardUnion(profiles []*types.PreferenceProfile) map[string][]string {
	union := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	add := func(key, value string) {
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if seen[key][value] {
			return
		}
		seen[key][value] = true
		union[key] = append(union[key], value)
	}

	for _, p := range profiles {
		for key, value := range p.Hard {
			if key == types.ConstraintDealBreakers {
				for _, item := range NormalizeDealBreakers(value) {
					add(key, item)
				}
				continue
			}
			add(key, value)
		}
	}
	return union
}
