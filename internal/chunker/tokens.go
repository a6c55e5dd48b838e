package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// splitTokens windows over the tiktoken token ids of the text and decodes each
// window back to a string. Token windows share the chunker's stride rule, so
// size and overlap keep their meaning, just measured in tokens.
func splitTokens(text string, opts Options) ([]string, error) {
	encoding := opts.Encoding
	if encoding == "" {
		encoding = defaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, &ConfigurationError{
			Field:  "encoding",
			Reason: fmt.Sprintf("load %q: %v", encoding, err),
		}
	}

	ids := enc.Encode(text, nil, nil)
	step := opts.Size - opts.Overlap

	var spans []string
	for start := 0; start < len(ids); start += step {
		end := start + opts.Size
		if end > len(ids) {
			end = len(ids)
		}
		spans = append(spans, enc.Decode(ids[start:end]))
	}
	return spans, nil
}
