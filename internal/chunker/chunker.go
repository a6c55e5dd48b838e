package chunker

import (
	"fmt"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// Unit is the measure used for window width and overlap
type Unit string

const (
	UnitChars  Unit = "chars"
	UnitTokens Unit = "tokens"
)

// Policy decides whether windows may cross segment boundaries
type Policy string

const (
	// PolicyConcat slides one window over the segments joined in order
	PolicyConcat Policy = "concat"
	// PolicySegment restarts the window at every segment boundary
	PolicySegment Policy = "segment"
)

// Options configures one chunking invocation
type Options struct {
	Size     int    // Window width, in Unit; must be positive
	Overlap  int    // 0 <= Overlap < Size
	Unit     Unit   // Defaults to UnitChars
	Encoding string // tiktoken encoding name, token unit only
	Policy   Policy // Defaults to PolicyConcat
}

// ConfigurationError reports an invalid chunking configuration. It is raised
// before any chunk is produced; a failed validation never yields partial output.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("chunker configuration: %s: %s", e.Field, e.Reason)
}

// OptionsFromConfig maps the pipeline configuration onto chunker options.
func OptionsFromConfig(cfg model.ChunkingConfig) Options {
	return Options{
		Size:     cfg.Size,
		Overlap:  cfg.Overlap,
		Unit:     Unit(cfg.Unit),
		Encoding: cfg.Encoding,
		Policy:   Policy(cfg.Policy),
	}
}

func (o Options) validate() error {
	if o.Size <= 0 {
		return &ConfigurationError{Field: "size", Reason: fmt.Sprintf("must be positive, got %d", o.Size)}
	}
	if o.Overlap < 0 {
		return &ConfigurationError{Field: "overlap", Reason: fmt.Sprintf("must be non-negative, got %d", o.Overlap)}
	}
	if o.Overlap >= o.Size {
		return &ConfigurationError{
			Field:  "overlap",
			Reason: fmt.Sprintf("must be smaller than size, got overlap=%d size=%d", o.Overlap, o.Size),
		}
	}
	switch o.Unit {
	case "", UnitChars, UnitTokens:
	default:
		return &ConfigurationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", o.Unit)}
	}
	switch o.Policy {
	case "", PolicyConcat, PolicySegment:
	default:
		return &ConfigurationError{Field: "policy", Reason: fmt.Sprintf("unknown policy %q", o.Policy)}
	}
	return nil
}

// Chunk splits a document's ordered text segments into overlapping TextChunks.
//
// The window advances by Size-Overlap per step; the final chunk may be shorter
// than Size but is never padded or dropped. Chunk ids are a pure function of
// the document id and the step count, so identical input always yields an
// identical chunk sequence.
func Chunk(doc model.Document, opts Options) ([]model.TextChunk, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var spans []string
	var err error

	switch opts.Policy {
	case PolicySegment:
		for _, seg := range doc.Segments {
			var segSpans []string
			segSpans, err = split(seg, opts)
			if err != nil {
				return nil, err
			}
			spans = append(spans, segSpans...)
		}
	default: // PolicyConcat
		spans, err = split(doc.Text(), opts)
		if err != nil {
			return nil, err
		}
	}

	chunks := make([]model.TextChunk, 0, len(spans))
	for i, text := range spans {
		chunks = append(chunks, model.TextChunk{
			ID:            model.ChunkID(doc.ID, i),
			Text:          text,
			SourceRef:     doc.ID,
			SequenceIndex: i,
		})
	}
	return chunks, nil
}

// split cuts one text into window spans according to the configured unit.
func split(text string, opts Options) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	if opts.Unit == UnitTokens {
		return splitTokens(text, opts)
	}
	return splitChars(text, opts.Size, opts.Overlap), nil
}

// splitChars walks the text rune by rune with a window of width size,
// advancing by size-overlap each step.
func splitChars(text string, size, overlap int) []string {
	runes := []rune(text)
	step := size - overlap

	var spans []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		spans = append(spans, string(runes[start:end]))
	}
	return spans
}
