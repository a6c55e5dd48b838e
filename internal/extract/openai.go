package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mberjans/iffc-chatbot-jules/internal/cache"
	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

const extractionPrompt = `Extract the biomedical entities from the text below.

Respond with a JSON array only, no prose. Each element:
  {"name": "<entity text>", "type": "<one of: Disease, Drug/Compound, Gene/Protein, Symptom, MedicalProcedure, Anatomy/BodyPart, Pathway>"}

Use the exact surface form from the text as the name. If nothing matches,
respond with [].

Text:
%s`

// OpenAIExtractor asks a chat-completion model for entities. Responses are
// cached by chunk text, so rerunning a document does not repeat calls and
// yields the same entities as the first run.
type OpenAIExtractor struct {
	client    *openai.Client
	model     string
	maxTokens int
	cache     cache.Cache
}

// NewOpenAIExtractor creates the extractor from configuration.
func NewOpenAIExtractor(cfg model.ExtractionConfig, c cache.Cache) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	return &OpenAIExtractor{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     m,
		maxTokens: maxTokens,
		cache:     c,
	}, nil
}

// Name returns the provider name
func (e *OpenAIExtractor) Name() string {
	return "openai"
}

// Extract returns the entities the model found in the chunk.
func (e *OpenAIExtractor) Extract(ctx context.Context, chunk model.TextChunk) ([]model.Entity, error) {
	key := cache.Key("extract:"+e.model, chunk.Text)
	if raw, ok := e.cache.Get(key); ok {
		return decodeEntities(raw, chunk.ID)
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a biomedical named-entity extraction service. You respond with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(extractionPrompt, chunk.Text),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai extraction: empty response")
	}

	raw := []byte(stripFences(resp.Choices[0].Message.Content))
	entities, err := decodeEntities(raw, chunk.ID)
	if err != nil {
		return nil, err
	}

	_ = e.cache.Set(key, raw, 0) // cache failures never fail the extraction
	return entities, nil
}

type wireEntity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// decodeEntities parses the model's JSON array and tags every entity with the
// source chunk id.
func decodeEntities(raw []byte, chunkID string) ([]model.Entity, error) {
	var wire []wireEntity
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	entities := make([]model.Entity, 0, len(wire))
	for _, w := range wire {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		entities = append(entities, model.Entity{
			Name:          name,
			Type:          model.ParseEntityType(w.Type),
			SourceChunkID: chunkID,
		})
	}
	return entities, nil
}

// stripFences removes a ```json ... ``` wrapper some models add despite the
// JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
