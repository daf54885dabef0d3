package preference

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/trip-consensus/internal/embedding"
	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/jonathan/trip-consensus/internal/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opts ...Option) *Engine {
	return NewEngine(embedding.NewHashEmbedder(32), opts...)
}

func TestIngestSurvey_BuildsNormalizedProfile(t *testing.T) {
	e := newTestEngine()

	profile, err := e.IngestSurvey(context.Background(), "t1", "alice", types.SurveyInput{
		Text: "street food and museums",
		Hard: map[string]string{
			types.ConstraintBudgetLevel:  "2",
			types.ConstraintDealBreakers: "Spicy food, Early Mornings, spicy food",
		},
		Soft: map[string]float64{"Food": 0.9, "culture": 0.8},
	})
	require.NoError(t, err)

	assert.Equal(t, "t1", profile.TripID)
	assert.Equal(t, "alice", profile.UserID)
	assert.Equal(t, "2", profile.Hard[types.ConstraintBudgetLevel])
	assert.Equal(t, "spicy food, early mornings", profile.Hard[types.ConstraintDealBreakers])
	assert.Equal(t, 0.9, profile.Soft["food"])
	assert.Equal(t, 0.8, profile.Soft["culture"])
	assert.Equal(t, "street food and museums", profile.Summary)
	assert.Len(t, profile.Embedding, 32)
	assert.False(t, profile.UpdatedAt.IsZero())
}

func TestIngestSurvey_ClampsSoftWeights(t *testing.T) {
	e := newTestEngine()

	profile, err := e.IngestSurvey(context.Background(), "t1", "alice", types.SurveyInput{
		Soft: map[string]float64{"food": 1.5, "relax": 0.1, "nature": 0.7},
	})
	require.NoError(t, err)

	assert.Equal(t, types.MaxSoftWeight, profile.Soft["food"])
	assert.Equal(t, types.MinSoftWeight, profile.Soft["relax"])
	assert.Equal(t, 0.7, profile.Soft["nature"])
}

func TestIngestSurvey_EmptyTextEmbedsZeroVector(t *testing.T) {
	e := newTestEngine()

	profile, err := e.IngestSurvey(context.Background(), "t1", "alice", types.SurveyInput{})
	require.NoError(t, err)

	assert.Empty(t, profile.Summary)
	for _, v := range profile.Embedding {
		assert.Zero(t, v)
	}
}

func TestIngestSurvey_TruncatesSummaryOnRuneBoundary(t *testing.T) {
	e := newTestEngine()

	// 300 bytes of 3-byte runes; the byte cap falls mid-rune.
	text := strings.Repeat("日", 100)
	profile, err := e.IngestSurvey(context.Background(), "t1", "alice", types.SurveyInput{Text: text})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(profile.Summary))
	assert.LessOrEqual(t, len(profile.Summary), summaryMaxLen)
	assert.Equal(t, strings.Repeat("日", 93), profile.Summary)
}

func TestIngestSurveyVector_SkipsEmbedding(t *testing.T) {
	e := newTestEngine()

	vector := []float32{1, 0, 0}
	profile := e.IngestSurveyVector("t1", "alice", types.SurveyInput{
		Text: "quiet beach towns",
		Soft: map[string]float64{"relax": 0.9},
	}, vector)

	assert.Equal(t, vector, profile.Embedding)
	assert.Equal(t, "quiet beach towns", profile.Summary)

	stored, ok := e.UserVector("t1", "alice")
	require.True(t, ok)
	assert.Equal(t, vector, stored)
}

func TestIngestSurvey_EmptyDealBreakersDropped(t *testing.T) {
	e := newTestEngine()

	profile, err := e.IngestSurvey(context.Background(), "t1", "alice", types.SurveyInput{
		Hard: map[string]string{types.ConstraintDealBreakers: " , ; "},
	})
	require.NoError(t, err)

	_, present := profile.Hard[types.ConstraintDealBreakers]
	assert.False(t, present)
}

func TestIngestSurvey_ReplacesInPlace(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	_, err := e.IngestSurvey(ctx, "t1", "alice", types.SurveyInput{
		Text: "hiking",
		Soft: map[string]float64{"adventure": 0.9},
	})
	require.NoError(t, err)

	_, err = e.IngestSurvey(ctx, "t1", "alice", types.SurveyInput{
		Text: "beaches",
		Soft: map[string]float64{"relax": 0.9},
	})
	require.NoError(t, err)

	agg := e.Aggregate("t1")
	assert.Equal(t, []string{"alice"}, agg.Members)

	profile, ok := e.GetProfile("t1", "alice")
	require.True(t, ok)
	assert.Equal(t, "beaches", profile.Summary)
	assert.NotContains(t, profile.Soft, "adventure")

	// The vector index holds exactly one entry for the pair.
	assert.Equal(t, 1, e.VectorIndex().Len())
}

func TestIngestSurvey_IdempotentExceptUpdatedAt(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
	calls := 0
	e := newTestEngine(WithClock(func() time.Time {
		now := times[calls]
		calls++
		return now
	}))

	in := types.SurveyInput{
		Text: "quiet coastal towns",
		Hard: map[string]string{types.ConstraintBudgetLevel: "3"},
		Soft: map[string]float64{"relax": 0.9},
	}

	first, err := e.IngestSurvey(context.Background(), "t1", "alice", in)
	require.NoError(t, err)
	second, err := e.IngestSurvey(context.Background(), "t1", "alice", in)
	require.NoError(t, err)

	assert.NotEqual(t, first.UpdatedAt, second.UpdatedAt)
	second.UpdatedAt = first.UpdatedAt
	assert.Equal(t, first, second)
}

func TestGetProfile_AbsentReturnsFalse(t *testing.T) {
	e := newTestEngine()

	_, ok := e.GetProfile("t1", "nobody")
	assert.False(t, ok)
}

func TestGetProfile_ReturnsCopy(t *testing.T) {
	e := newTestEngine()
	_, err := e.IngestSurvey(context.Background(), "t1", "alice", types.SurveyInput{
		Soft: map[string]float64{"food": 0.9},
	})
	require.NoError(t, err)

	p, ok := e.GetProfile("t1", "alice")
	require.True(t, ok)
	p.Soft["food"] = 0.5

	fresh, _ := e.GetProfile("t1", "alice")
	assert.Equal(t, 0.9, fresh.Soft["food"])
}

func TestTripVector_IsCentroid(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	_, err := e.IngestSurvey(ctx, "t1", "alice", types.SurveyInput{Text: "mountain trails"})
	require.NoError(t, err)
	_, err = e.IngestSurvey(ctx, "t1", "bob", types.SurveyInput{Text: "wine tasting"})
	require.NoError(t, err)

	a, _ := e.UserVector("t1", "alice")
	b, _ := e.UserVector("t1", "bob")

	centroid, ok := e.TripVector("t1")
	require.True(t, ok)
	require.Len(t, centroid, len(a))
	for i := range centroid {
		assert.InDelta(t, (a[i]+b[i])/2, centroid[i], 1e-6)
	}
}

func TestTripVector_EmptyTrip(t *testing.T) {
	e := newTestEngine()

	_, ok := e.TripVector("ghost")
	assert.False(t, ok)
}

func TestIngest_MirrorsIntoVectorIndex(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	_, err := e.IngestSurvey(ctx, "t1", "alice", types.SurveyInput{Text: "jazz bars"})
	require.NoError(t, err)
	_, err = e.IngestSurvey(ctx, "t2", "alice", types.SurveyInput{Text: "jazz bars"})
	require.NoError(t, err)

	// Same user on two trips occupies two distinct index keys.
	assert.Equal(t, 2, e.VectorIndex().Len())

	vec, _ := e.UserVector("t1", "alice")
	results := e.VectorIndex().Query(vec, 1)
	require.Len(t, results, 1)
	assert.Equal(t, vectorindex.ProfileKey("t1", "alice"), results[0].Key)
}
