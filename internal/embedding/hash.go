package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultHashDimension = 256

// HashEmbedder is a deterministic, dependency-free embedder built on feature
// hashing: each lowercased token is hashed into a bucket with a hash-derived
// sign, and the result is L2-normalized. It is not semantically meaningful the
// way a trained model is, but it is stable, fast, and offline, which makes it
// the default for CLI runs and tests.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a feature-hash embedder. A non-positive dimension
// selects the default (256).
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = defaultHashDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// Embed returns the feature-hash embedding for text. Empty or whitespace-only
// text maps to the zero vector.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec, nil
	}

	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok)) //nolint:errcheck // fnv hash writes never fail
		sum := h.Sum64()

		bucket := int(sum % uint64(e.dimension))
		// Use a bit outside the bucket modulus for the sign so bucket and
		// sign stay independent.
		if sum&(1<<63) != 0 {
			vec[bucket] -= 1.0
		} else {
			vec[bucket] += 1.0
		}
	}

	normalize(vec)
	return vec, nil
}

// Dimension returns the fixed embedding vector dimension.
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// ModelName returns the name of the embedding model.
func (e *HashEmbedder) ModelName() string {
	return "feature-hash-v1"
}

// Close is a no-op for the local embedder.
func (e *HashEmbedder) Close() error {
	return nil
}

// tokenize splits text into lowercased alphanumeric runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// normalize scales vec to unit L2 norm in place. The zero vector is left as is.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
