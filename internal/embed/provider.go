// Package embed defines the embedding capability: a provider interface with a
// deterministic mock for tests and offline runs, an OpenAI-backed provider,
// and a file-backed vector store for the produced vectors.
package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// Provider turns text into a fixed-dimension vector
type Provider interface {
	// Name returns the provider name
	Name() string

	// Dimensions returns the vector width this provider produces
	Dimensions() int

	// Embed returns the embedding vector for the text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New creates a provider from configuration. An empty provider name disables
// embedding.
func New(cfg model.EmbeddingConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil

	case "mock":
		return NewMockProvider(cfg.Dimensions), nil

	case "openai":
		return NewOpenAIProvider(cfg)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: mock, openai)", cfg.Provider)
	}
}

// MockProvider produces deterministic pseudo-embeddings seeded from a hash of
// the text. Useful for tests and offline runs: no service, no randomness,
// stable across reruns.
type MockProvider struct {
	dims int
}

// NewMockProvider creates a mock provider with the given dimensionality.
func NewMockProvider(dims int) *MockProvider {
	if dims <= 0 {
		dims = 384
	}
	return &MockProvider{dims: dims}
}

// Name returns the provider name
func (p *MockProvider) Name() string { return "mock" }

// Dimensions returns the vector width
func (p *MockProvider) Dimensions() int { return p.dims }

// Embed derives a unit vector from the FNV hash chain of the text.
func (p *MockProvider) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, p.dims)
	var norm float64
	for i := range vec {
		// xorshift64 over the hash state; cheap and reproducible
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		v := float64(int64(state)) / float64(math.MaxInt64)
		vec[i] = float32(v)
		norm += v * v
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}
