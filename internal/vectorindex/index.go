// Package vectorindex provides an in-memory vector store with cosine-similarity ranked lookup.
package vectorindex

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Result is one ranked lookup hit.
type Result struct {
	Key   string
	Score float64
}

type entry struct {
	vector []float32
	order  int
}

// Index maps keys to fixed-dimension vectors and answers top-k cosine
// similarity queries. Ties are broken by insertion order, earlier wins;
// upserting an existing key keeps its original position.
type Index struct {
	mu      sync.RWMutex
	entries map[string]entry
	next    int
}

// New creates an empty index.
func New() *Index {
	return &Index{entries: make(map[string]entry)}
}

// Upsert inserts or replaces the vector stored under key.
func (idx *Index) Upsert(key string, vector []float32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	vec := make([]float32, len(vector))
	copy(vec, vector)

	if existing, ok := idx.entries[key]; ok {
		existing.vector = vec
		idx.entries[key] = existing
		return
	}
	idx.entries[key] = entry{vector: vec, order: idx.next}
	idx.next++
}

// Delete removes the vector stored under key, if any.
func (idx *Index) Delete(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.entries, key)
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Query returns up to topK keys ranked by descending cosine similarity to the
// query vector. An empty index yields an empty slice, not an error.
func (idx *Index) Query(vector []float32, topK int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 || topK <= 0 {
		return []Result{}
	}

	type scored struct {
		Result
		order int
	}
	ranked := make([]scored, 0, len(idx.entries))
	for key, e := range idx.entries {
		ranked = append(ranked, scored{
			Result: Result{Key: key, Score: Cosine(vector, e.vector)},
			order:  e.order,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].order < ranked[j].order
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	out := make([]Result, topK)
	for i := range out {
		out[i] = ranked[i].Result
	}
	return out
}

// Cosine returns the cosine similarity of a and b. A zero-norm vector (or a
// dimension mismatch) yields 0 rather than an error, guarding divide-by-zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ProfileKey derives the index key for a (trip, user) pair. The length prefix
// keeps the mapping injective: no two distinct pairs can collide regardless of
// what separators the identifiers themselves contain.
func ProfileKey(tripID, userID string) string {
	return fmt.Sprintf("p:%d:%s:%s", len(tripID), tripID, userID)
}
