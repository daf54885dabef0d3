package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(0)

	a, err := e.Embed(context.Background(), "hiking and street food, no early mornings")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "hiking and street food, no early mornings")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHashEmbedder_EmptyTextIsZeroVector(t *testing.T) {
	e := NewHashEmbedder(64)

	for _, text := range []string{"", "   ", "\t\n"} {
		vec, err := e.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Len(t, vec, 64)
		for _, v := range vec {
			assert.Zero(t, v)
		}
	}
}

func TestHashEmbedder_UnitNorm(t *testing.T) {
	e := NewHashEmbedder(128)

	vec, err := e.Embed(context.Background(), "adventure nightlife culture")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestHashEmbedder_DifferentTextsDiffer(t *testing.T) {
	e := NewHashEmbedder(0)

	a, err := e.Embed(context.Background(), "museums and galleries")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "beach bars after midnight")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashEmbedder_DefaultDimension(t *testing.T) {
	assert.Equal(t, 256, NewHashEmbedder(0).Dimension())
	assert.Equal(t, 32, NewHashEmbedder(32).Dimension())
}

func TestNewEmbedder_LocalDefault(t *testing.T) {
	e, err := NewEmbedder(context.Background(), ProviderLocal, "")
	require.NoError(t, err)
	assert.Equal(t, "feature-hash-v1", e.ModelName())

	e, err = NewEmbedder(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "feature-hash-v1", e.ModelName())
}

func TestNewEmbedder_UnknownProvider(t *testing.T) {
	_, err := NewEmbedder(context.Background(), "bedrock", "")
	assert.Error(t, err)
}

func TestNewEmbedder_GeminiRequiresKey(t *testing.T) {
	_, err := NewEmbedder(context.Background(), ProviderGemini, "")
	assert.Error(t, err)
}
