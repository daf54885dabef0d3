package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_UpsertReplacesInPlace(t *testing.T) {
	idx := New()

	idx.Upsert("k1", []float32{1, 0, 0})
	idx.Upsert("k1", []float32{0, 1, 0})

	assert.Equal(t, 1, idx.Len())

	results := idx.Query([]float32{0, 1, 0}, 1)
	assert.Len(t, results, 1)
	assert.Equal(t, "k1", results[0].Key)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestIndex_QueryRanksByCosine(t *testing.T) {
	idx := New()
	idx.Upsert("far", []float32{0, 1, 0})
	idx.Upsert("near", []float32{1, 0.1, 0})
	idx.Upsert("exact", []float32{1, 0, 0})

	results := idx.Query([]float32{1, 0, 0}, 3)

	assert.Equal(t, []string{"exact", "near", "far"}, []string{results[0].Key, results[1].Key, results[2].Key})
}

func TestIndex_QueryTiesBreakByInsertionOrder(t *testing.T) {
	idx := New()
	idx.Upsert("second", []float32{2, 0})
	idx.Upsert("first", []float32{1, 0})

	// Cosine is scale-invariant so both score 1.0; "second" was inserted first.
	results := idx.Query([]float32{1, 0}, 2)
	assert.Equal(t, "second", results[0].Key)
	assert.Equal(t, "first", results[1].Key)
}

func TestIndex_QueryEmptyIndex(t *testing.T) {
	idx := New()

	results := idx.Query([]float32{1, 0}, 5)
	assert.Empty(t, results)
}

func TestIndex_QueryTopKTruncates(t *testing.T) {
	idx := New()
	idx.Upsert("a", []float32{1, 0})
	idx.Upsert("b", []float32{0, 1})
	idx.Upsert("c", []float32{1, 1})

	assert.Len(t, idx.Query([]float32{1, 0}, 2), 2)
	assert.Len(t, idx.Query([]float32{1, 0}, 10), 3)
	assert.Empty(t, idx.Query([]float32{1, 0}, 0))
}

func TestIndex_Delete(t *testing.T) {
	idx := New()
	idx.Upsert("a", []float32{1, 0})
	idx.Delete("a")

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Query([]float32{1, 0}, 1))
}

func TestCosine_ZeroVectorIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 0}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{0, 0}))
}

func TestCosine_DimensionMismatchIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestCosine_OppositeVectors(t *testing.T) {
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}

func TestProfileKey_Injective(t *testing.T) {
	// Pairs chosen so naive concatenation with any single separator collides.
	pairs := [][2]string{
		{"t1", "u1"},
		{"t1:u", "1"},
		{"t", "1:u1"},
		{"t1:", "u1"},
		{"", "t1:u1"},
	}

	seen := make(map[string][2]string)
	for _, p := range pairs {
		key := ProfileKey(p[0], p[1])
		if prev, dup := seen[key]; dup {
			t.Fatalf("ProfileKey collision: %v and %v both map to %q", prev, p, key)
		}
		seen[key] = p
	}
}

func TestProfileKey_Deterministic(t *testing.T) {
	assert.Equal(t, ProfileKey("t1", "alice"), ProfileKey("t1", "alice"))
}
