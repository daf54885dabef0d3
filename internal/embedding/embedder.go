// Package embedding wraps fixed-dimension text-embedding providers behind a common interface.
package embedding

import (
	"context"
	"fmt"
)

// Provider selects an embedding backend.
type Provider string

const (
	// ProviderGemini embeds via the Gemini text-embedding API.
	ProviderGemini Provider = "gemini"
	// ProviderLocal embeds via the deterministic in-process feature hasher.
	ProviderLocal Provider = "local"
)

// Embedder generates a vector embedding for text.
// Implementations are deterministic for identical input and must map
// empty or whitespace-only text to the zero vector, never an error.
type Embedder interface {
	// Embed returns the embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the fixed embedding vector dimension.
	Dimension() int
	// ModelName returns the name of the embedding model.
	ModelName() string
	// Close releases any resources held by the embedder.
	Close() error
}

// NewEmbedder creates an embedder for the given provider.
// The API key is only required for remote providers.
func NewEmbedder(ctx context.Context, provider Provider, apiKey string) (Embedder, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiEmbedder(ctx, apiKey, "")
	case ProviderLocal, "":
		return NewHashEmbedder(0), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}
