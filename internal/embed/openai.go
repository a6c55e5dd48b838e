package embed

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// OpenAIProvider produces embeddings via the OpenAI embeddings API
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dims   int
}

// NewOpenAIProvider creates the provider from configuration.
func NewOpenAIProvider(cfg model.EmbeddingConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		m = openai.SmallEmbedding3
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 1536
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
		dims:   dims,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string { return "openai" }

// Dimensions returns the vector width
func (p *OpenAIProvider) Dimensions() int { return p.dims }

// Embed requests an embedding for the text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: p.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}
	return resp.Data[0].Embedding, nil
}
