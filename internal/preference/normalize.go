// Package preference implements the in-memory preference profile store,
// survey ingestion, and cross-member trip aggregation.
package preference

import "strings"

// NormalizeDealBreakers turns free-text deal-breaker input into an ordered set:
// split on commas and semicolons, trim, lower-case, drop empties, de-duplicate
// keeping first-seen order. It is exposed because callers reuse it when
// building hard constraints before ingestion, and ingestion applies it again
// so resubmissions stay normalized.
func NormalizeDealBreakers(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})

	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		item := strings.ToLower(strings.TrimSpace(p))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
