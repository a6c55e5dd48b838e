// Package extract defines the entity extraction capability and its
// implementations. Extraction is an external service to the graph core: the
// lexicon extractor is the deterministic stand-in used in tests and offline
// runs, the OpenAI extractor the real one, both selected by configuration.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/mberjans/iffc-chatbot-jules/internal/cache"
	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// Extractor turns a text chunk into typed entities. Implementations must tag
// every entity with the chunk's id; the graph builder rejects entities with
// no traceable source.
type Extractor interface {
	// Name returns the provider name
	Name() string

	// Extract returns the entities found in the chunk
	Extract(ctx context.Context, chunk model.TextChunk) ([]model.Entity, error)
}

// New creates an extractor from configuration. An empty provider means
// extraction is disabled and the pipeline builds the sequential chunk graph
// instead.
func New(cfg model.ExtractionConfig, c cache.Cache) (Extractor, error) {
	if c == nil {
		c = cache.Nop{}
	}

	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil

	case "lexicon":
		return NewLexiconExtractor(), nil

	case "openai":
		return NewOpenAIExtractor(cfg, c)

	default:
		return nil, fmt.Errorf("unknown extraction provider: %s (supported: lexicon, openai)", cfg.Provider)
	}
}
