package model

import "fmt"

// TextChunk is a bounded span of text cut from a source document by the
// sliding-window chunker
type TextChunk struct {
	ID            string `json:"id"`             // Deterministic: source ref + sequence index
	Text          string `json:"text"`           // Literal chunk content
	SourceRef     string `json:"source_ref"`     // Originating document identifier
	SequenceIndex int    `json:"sequence_index"` // 0-based position within the source
}

// ChunkID derives the stable chunk identifier from the source document id and
// the chunk's 0-based sequence index. Rerunning the chunker on identical input
// must reproduce identical ids, so nothing random or clock-derived goes in here.
func ChunkID(sourceRef string, index int) string {
	return fmt.Sprintf("%s:%04d", sourceRef, index)
}

// Document is the parsed form of one source document: an identifier plus the
// ordered text segments (paragraphs) extracted from its XML
type Document struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Segments []string `json:"segments"`
}

// Text returns the document body as a single string, segments joined in order.
func (d Document) Text() string {
	out := ""
	for i, seg := range d.Segments {
		if i > 0 {
			out += " "
		}
		out += seg
	}
	return out
}
