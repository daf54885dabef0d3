// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/trip-consensus/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTripAggregate outputs a human-readable summary of a trip's consensus.
func (p *Printer) PrintTripAggregate(agg *types.TripAggregate) {
	if agg == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Trip:     %s\n", agg.TripID))
	sb.WriteString(fmt.Sprintf("Members:  %d (%s)\n", len(agg.Members), strings.Join(agg.Members, ", ")))
	sb.WriteString(fmt.Sprintf("Coverage: %.0f%%\n", agg.Coverage*100))
	if agg.ReadyForOptions {
		sb.WriteString("Status:   ready for options\n")
	} else {
		sb.WriteString("Status:   not ready\n")
	}
	sb.WriteString("\n")

	if len(agg.SoftMean) > 0 {
		sb.WriteString("Soft Preferences:\n")
		tags := make([]string, 0, len(agg.SoftMean))
		for tag := range agg.SoftMean {
			tags = append(tags, tag)
		}
		// Heaviest first, ties alphabetical
		sort.Slice(tags, func(i, j int) bool {
			if agg.SoftMean[tags[i]] != agg.SoftMean[tags[j]] {
				return agg.SoftMean[tags[i]] > agg.SoftMean[tags[j]]
			}
			return tags[i] < tags[j]
		})
		count := min(len(tags), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s: %.2f\n", tags[i], agg.SoftMean[tags[i]]))
		}
		if len(tags) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(tags)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(agg.Conflicts) > 0 {
		sb.WriteString("Conflicts:\n")
		for _, c := range agg.Conflicts {
			reason := c.Reason
			if len(reason) > 45 {
				reason = reason[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s: %s\n", c.Field, reason))
		}
	} else {
		sb.WriteString("No conflicts detected\n")
	}

	p.printBox("TRIP AGGREGATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs one member's normalized preference profile.
func (p *Printer) PrintProfile(profile *types.PreferenceProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:     %s\n", profile.UserID))
	sb.WriteString(fmt.Sprintf("Trip:     %s\n", profile.TripID))
	sb.WriteString("\n")

	if len(profile.Hard) > 0 {
		sb.WriteString("Hard Constraints:\n")
		keys := make([]string, 0, len(profile.Hard))
		for k := range profile.Hard {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", k, profile.Hard[k]))
		}
		sb.WriteString("\n")
	}

	if len(profile.Soft) > 0 {
		sb.WriteString("Soft Preferences:\n")
		tags := make([]string, 0, len(profile.Soft))
		for tag := range profile.Soft {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool {
			if profile.Soft[tags[i]] != profile.Soft[tags[j]] {
				return profile.Soft[tags[i]] > profile.Soft[tags[j]]
			}
			return tags[i] < tags[j]
		})
		for _, tag := range tags {
			sb.WriteString(fmt.Sprintf("  • %s: %.2f\n", tag, profile.Soft[tag]))
		}
		sb.WriteString("\n")
	}

	if profile.Summary != "" {
		summary := profile.Summary
		if len(summary) > 50 {
			summary = summary[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", summary))
	}

	p.printBox("PREFERENCE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedItems outputs the top N scored items.
func (p *Printer) PrintRankedItems(items []types.ScoredItem) {
	if len(items) == 0 {
		p.printBox("RANKED ITEMS", "No items ranked")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total items ranked: %d\n\n", len(items)))

	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := items[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, item.ItemID))
		sb.WriteString(fmt.Sprintf("    Score: %.3f (similarity %.3f)", item.Blended, item.Similarity))
		sb.WriteString("\n")
		if item.Category != "" {
			sb.WriteString(fmt.Sprintf("    Category: %s\n", item.Category))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more items", len(items)-maxItemsToShow))
	}

	p.printBox("RANKED ITEMS", sb.String())
}
