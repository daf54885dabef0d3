package preference

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jonathan/trip-consensus/internal/types"
)

// StrongPreferenceThreshold is the soft weight at or above which a tag counts
// as strongly preferred for conflict detection.
const StrongPreferenceThreshold = 0.8

// ConflictRule inspects every profile in a trip and emits zero or more
// conflicts. Rules are independent; adding a constraint check means adding a
// rule, not editing existing ones.
type ConflictRule func(profiles []*types.PreferenceProfile) []types.Conflict

// DefaultConflictRules returns the rule set applied when no custom rules are
// configured.
func DefaultConflictRules() []ConflictRule {
	return []ConflictRule{
		BudgetSpreadRule,
		DealBreakerCollisionRule,
	}
}

// BudgetSpreadRule flags trips whose budget_level values span more than one
// integer level. Non-numeric values are ignored.
func BudgetSpreadRule(profiles []*types.PreferenceProfile) []types.Conflict {
	minLevel, maxLevel := 0, 0
	found := false
	for _, p := range profiles {
		raw, ok := p.Hard[types.ConstraintBudgetLevel]
		if !ok {
			continue
		}
		level, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if !found {
			minLevel, maxLevel = level, level
			found = true
			continue
		}
		if level < minLevel {
			minLevel = level
		}
		if level > maxLevel {
			maxLevel = level
		}
	}

	if found && maxLevel-minLevel > 1 {
		return []types.Conflict{{
			Field:  types.ConstraintBudgetLevel,
			Reason: "wide budget range across members",
		}}
	}
	return nil
}

// DealBreakerCollisionRule flags vibe tags that one member deal-breaks while
// another member strongly prefers them. Each colliding tag is reported once.
func DealBreakerCollisionRule(profiles []*types.PreferenceProfile) []types.Conflict {
	// Tags any member strongly prefers, with the preferring member excluded
	// from matching against their own deal breakers.
	var conflicts []types.Conflict
	reported := make(map[string]bool)

	for _, breaker := range profiles {
		items := NormalizeDealBreakers(breaker.Hard[types.ConstraintDealBreakers])
		if len(items) == 0 {
			continue
		}
		broken := make(map[string]bool, len(items))
		for _, item := range items {
			broken[item] = true
		}

		for _, other := range profiles {
			if other.UserID == breaker.UserID && other.TripID == breaker.TripID {
				continue
			}
			// Sorted tag order keeps conflict output stable across runs.
			tags := make([]string, 0, len(other.Soft))
			for tag := range other.Soft {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				if other.Soft[tag] < StrongPreferenceThreshold || !broken[tag] || reported[tag] {
					continue
				}
				reported[tag] = true
				conflicts = append(conflicts, types.Conflict{
					Field:  types.ConstraintDealBreakers,
					Reason: fmt.Sprintf("%q is a deal breaker for one member but a strong preference of another", tag),
				})
			}
		}
	}
	return conflicts
}
