package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintTripAggregate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	agg := &types.TripAggregate{
		TripID:   "summer-2026",
		Members:  []string{"alice", "bob"},
		Coverage: 1.0,
		SoftMean: map[string]float64{"food": 0.9, "nature": 0.6},
		HardUnion: map[string][]string{
			"budget_level": {"2", "3"},
		},
		Conflicts: []types.Conflict{
			{Field: "budget_level", Reason: "wide budget range across members"},
		},
	}

	p.PrintTripAggregate(agg)
	output := buf.String()

	assert.Contains(t, output, "TRIP AGGREGATE")
	assert.Contains(t, output, "summer-2026")
	assert.Contains(t, output, "alice, bob")
	assert.Contains(t, output, "food: 0.90")
	assert.Contains(t, output, "budget_level")
	assert.Contains(t, output, "not ready")
}

func TestPrintTripAggregate_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTripAggregate(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTripAggregate_NoConflicts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTripAggregate(&types.TripAggregate{
		TripID:          "weekend",
		Members:         []string{"alice"},
		Coverage:        1.0,
		ReadyForOptions: true,
	})
	output := buf.String()

	assert.Contains(t, output, "No conflicts detected")
	assert.Contains(t, output, "ready for options")
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.PreferenceProfile{
		TripID: "summer-2026",
		UserID: "alice",
		Hard: map[string]string{
			"budget_level":  "2",
			"deal_breakers": "crowds",
		},
		Soft:    map[string]float64{"food": 0.9, "culture": 0.8},
		Summary: "street food tours and museums",
	}

	p.PrintProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "PREFERENCE PROFILE")
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "deal_breakers: crowds")
	assert.Contains(t, output, "food: 0.90")
	assert.Contains(t, output, "street food tours")
}

func TestPrintProfile_SortsByWeight(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(&types.PreferenceProfile{
		TripID: "t",
		UserID: "u",
		Soft:   map[string]float64{"relax": 0.5, "food": 0.9},
	})
	output := buf.String()

	foodIdx := strings.Index(output, "food")
	relaxIdx := strings.Index(output, "relax")
	assert.True(t, foodIdx < relaxIdx, "heavier tags should print first")
}

func TestPrintRankedItems(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	items := []types.ScoredItem{
		{ItemID: "market-tour", Category: "food", Similarity: 0.91, Blended: 0.93},
		{ItemID: "museum", Category: "culture", Similarity: 0.42, Blended: 0.51},
	}

	p.PrintRankedItems(items)
	output := buf.String()

	assert.Contains(t, output, "RANKED ITEMS")
	assert.Contains(t, output, "#1  market-tour")
	assert.Contains(t, output, "#2  museum")
	assert.Contains(t, output, "0.930")
}

func TestPrintRankedItems_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRankedItems(nil)

	assert.Contains(t, buf.String(), "No items ranked")
}

func TestPrintRankedItems_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	items := make([]types.ScoredItem, 8)
	for i := range items {
		items[i] = types.ScoredItem{ItemID: "item", Blended: 0.5}
	}

	p.PrintRankedItems(items)

	assert.Contains(t, buf.String(), "and 3 more items")
}
