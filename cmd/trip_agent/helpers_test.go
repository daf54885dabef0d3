package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/trip-consensus/internal/embedding"
	"github.com/jonathan/trip-consensus/internal/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSurveys(t *testing.T) {
	path := writeTempJSON(t, "surveys.json", `[
		{"user_id": "alice", "budget_level": 2, "vibes": ["food"]},
		{"user_id": "bob", "trip_id": "summer", "deal_breaker": "crowds"}
	]`)

	reqs, err := loadSurveys(path)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "alice", reqs[0].UserID)
	assert.Equal(t, "summer", reqs[1].TripID)
}

func TestLoadSurveys_MissingFile(t *testing.T) {
	_, err := loadSurveys(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadSurveys_InvalidSubmission(t *testing.T) {
	path := writeTempJSON(t, "surveys.json", `[{"user_id": "alice", "budget_level": 9}]`)

	_, err := loadSurveys(path)
	assert.Error(t, err)
}

func TestLoadCandidates(t *testing.T) {
	path := writeTempJSON(t, "candidates.json", `[
		{"id": "market-tour", "category": "food", "text": "street food walking tour"},
		{"id": "museum", "embedding": [0.1, 0.2]}
	]`)

	candidates, err := loadCandidates(path)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "market-tour", candidates[0].ID)
	assert.Len(t, candidates[1].Embedding, 2)
}

func TestIngestSurveys_TripResolution(t *testing.T) {
	path := writeTempJSON(t, "surveys.json", `[
		{"user_id": "alice"},
		{"user_id": "bob", "trip_id": "summer"},
		{"user_id": "carol", "trip_id": "summer"}
	]`)

	reqs, err := loadSurveys(path)
	require.NoError(t, err)

	engine := preference.NewEngine(embedding.NewHashEmbedder(32))
	trips, err := ingestSurveys(context.Background(), engine, "fallback", reqs)
	require.NoError(t, err)

	assert.Equal(t, []string{"fallback", "summer"}, trips)

	_, ok := engine.GetProfile("fallback", "alice")
	assert.True(t, ok)
	_, ok = engine.GetProfile("summer", "bob")
	assert.True(t, ok)
}

func TestNewCLIEmbedder(t *testing.T) {
	emb, err := newCLIEmbedder(context.Background(), "local", 64)
	require.NoError(t, err)
	defer emb.Close() //nolint:errcheck

	assert.Equal(t, 64, emb.Dimension())
}

func TestNewCLIEmbedder_UnknownProvider(t *testing.T) {
	_, err := newCLIEmbedder(context.Background(), "openai", 0)
	assert.Error(t, err)
}

func TestNewCLIEmbedder_GeminiRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := newCLIEmbedder(context.Background(), "gemini", 0)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}
