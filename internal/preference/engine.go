package preference

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonathan/trip-consensus/internal/embedding"
	"github.com/jonathan/trip-consensus/internal/types"
	"github.com/jonathan/trip-consensus/internal/vectorindex"
)

// summaryMaxLen caps the stored display summary. The full text is still what
// gets embedded when it is short enough to fit.
const summaryMaxLen = 280

// ExpectedSizeFunc supplies the expected roster size for a trip. A return
// value <= 0 means no hint is available.
type ExpectedSizeFunc func(tripID string) int

// Engine owns the profile store and its mirrored vector index. One Engine is
// constructed per process and passed to the transport layer; independent
// instances can be created freely in tests.
//
// All mutations take the engine lock, so each ingestion lands as one atomic
// replace; concurrent ingestion for the same (trip, user) is last-write-wins.
type Engine struct {
	mu          sync.RWMutex
	profiles    map[types.ProfileKey]*types.PreferenceProfile
	tripMembers map[string][]string

	index        *vectorindex.Index
	embedder     embedding.Embedder
	expectedSize ExpectedSizeFunc
	rules        []ConflictRule
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithExpectedSize wires an external roster-size source used for coverage.
func WithExpectedSize(fn ExpectedSizeFunc) Option {
	return func(e *Engine) { e.expectedSize = fn }
}

// WithConflictRules replaces the default conflict rule set.
func WithConflictRules(rules ...ConflictRule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithClock overrides the time source; tests use this to pin updated_at.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an empty engine backed by the given embedder.
func NewEngine(embedder embedding.Embedder, opts ...Option) *Engine {
	e := &Engine{
		profiles:    make(map[types.ProfileKey]*types.PreferenceProfile),
		tripMembers: make(map[string][]string),
		index:       vectorindex.New(),
		embedder:    embedder,
		rules:       DefaultConflictRules(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IngestSurvey converts a survey submission into a normalized profile and
// replaces any previous profile for (tripID, userID) in one atomic update,
// mirroring the embedding into the vector index under the derived key.
//
// Ingestion degrades instead of failing on well-typed input: out-of-range
// soft weights are clamped and missing text embeds as the zero vector. The
// only error source is the embedding call itself.
func (e *Engine) IngestSurvey(ctx context.Context, tripID, userID string, in types.SurveyInput) (*types.PreferenceProfile, error) {
	// The embedding call is the only suspension point; keep it outside the
	// lock so a slow provider never blocks reads or other trips.
	vector, err := e.embedder.Embed(ctx, strings.TrimSpace(in.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed survey text: %w", err)
	}
	return e.IngestSurveyVector(tripID, userID, in, vector), nil
}

// IngestSurveyVector stores a submission whose embedding the caller computed
// already. Bulk replays embed concurrently and then apply each profile in
// submission order through this method, so member order stays first-submission
// order no matter which embedding finished first.
func (e *Engine) IngestSurveyVector(tripID, userID string, in types.SurveyInput, vector []float32) *types.PreferenceProfile {
	hard := make(map[string]string, len(in.Hard))
	for k, v := range in.Hard {
		hard[k] = v
	}
	if raw, ok := hard[types.ConstraintDealBreakers]; ok {
		items := NormalizeDealBreakers(raw)
		if len(items) == 0 {
			delete(hard, types.ConstraintDealBreakers)
		} else {
			hard[types.ConstraintDealBreakers] = strings.Join(items, ", ")
		}
	}

	soft := make(map[string]float64, len(in.Soft))
	for tag, weight := range in.Soft {
		soft[strings.ToLower(strings.TrimSpace(tag))] = clampWeight(weight)
	}

	summary := strings.TrimSpace(in.Text)
	if len(summary) > summaryMaxLen {
		// Back up to a rune start so the cut never splits a multi-byte rune.
		cut := summaryMaxLen
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}

	profile := &types.PreferenceProfile{
		TripID:    tripID,
		UserID:    userID,
		Hard:      hard,
		Soft:      soft,
		Summary:   summary,
		Embedding: vector,
		UpdatedAt: e.now(),
	}

	e.mu.Lock()
	key := profile.Key()
	if _, exists := e.profiles[key]; !exists {
		e.tripMembers[tripID] = append(e.tripMembers[tripID], userID)
	}
	e.profiles[key] = profile
	e.index.Upsert(vectorindex.ProfileKey(tripID, userID), vector)
	e.mu.Unlock()

	return profile.Clone()
}

// GetProfile returns a copy of the current profile for (tripID, userID), or
// false when none exists.
func (e *Engine) GetProfile(tripID, userID string) (*types.PreferenceProfile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.profiles[types.ProfileKey{TripID: tripID, UserID: userID}]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// UserVector returns a copy of the stored embedding for (tripID, userID).
func (e *Engine) UserVector(tripID, userID string) ([]float32, bool) {
	p, ok := e.GetProfile(tripID, userID)
	if !ok {
		return nil, false
	}
	return p.Embedding, true
}

// TripVector returns the centroid of the trip members' embeddings, a
// trip-level query vector for item ranking. False when the trip has no
// members or no member has a non-empty embedding.
func (e *Engine) TripVector(tripID string) ([]float32, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var centroid []float64
	count := 0
	for _, userID := range e.tripMembers[tripID] {
		p := e.profiles[types.ProfileKey{TripID: tripID, UserID: userID}]
		if p == nil || len(p.Embedding) == 0 {
			continue
		}
		if centroid == nil {
			centroid = make([]float64, len(p.Embedding))
		}
		if len(p.Embedding) != len(centroid) {
			continue
		}
		for i, v := range p.Embedding {
			centroid[i] += float64(v)
		}
		count++
	}
	if count == 0 {
		return nil, false
	}

	out := make([]float32, len(centroid))
	for i, v := range centroid {
		out[i] = float32(v / float64(count))
	}
	return out, true
}

// VectorIndex exposes the mirrored index for similarity lookups by key.
func (e *Engine) VectorIndex() *vectorindex.Index {
	return e.index
}

// clampWeight forces a soft weight into the legal [0.5, 0.9] range.
func clampWeight(w float64) float64 {
	if w < types.MinSoftWeight {
		return types.MinSoftWeight
	}
	if w > types.MaxSoftWeight {
		return types.MaxSoftWeight
	}
	return w
}
