// Package xmlparse extracts document text from XML sources. It is a thin
// wrapper over encoding/xml: the pipeline only needs ordered paragraph text
// with a source identifier per document, everything else stays in the file.
package xmlparse

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

type corpusRoot struct {
	Docs []corpusDoc `xml:"doc"`
}

type corpusDoc struct {
	ID         string   `xml:"id,attr"`
	Title      string   `xml:"title"`
	Paragraphs []string `xml:"paragraph"`
}

// newDecoder builds an XML decoder that honors non-UTF-8 encoding
// declarations.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// ParseCorpus reads a corpus document: a root element holding <doc id="...">
// elements with <title> and <paragraph> children. Empty paragraphs are
// skipped; documents without an id attribute get a positional one so chunk
// ids stay deterministic.
func ParseCorpus(r io.Reader) ([]model.Document, error) {
	var root corpusRoot
	if err := newDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse corpus XML: %w", err)
	}

	docs := make([]model.Document, 0, len(root.Docs))
	for i, d := range root.Docs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			id = fmt.Sprintf("doc%d", i+1)
		}
		doc := model.Document{
			ID:    id,
			Title: strings.TrimSpace(d.Title),
		}
		for _, p := range d.Paragraphs {
			if text := strings.TrimSpace(p); text != "" {
				doc.Segments = append(doc.Segments, text)
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ParseCorpusFile reads a corpus document from disk.
func ParseCorpusFile(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ParseCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// ExtractAllText concatenates every trimmed text node in the document,
// element content and tails alike. Used as the fallback when a file has no
// recognizable paragraph structure.
func ExtractAllText(r io.Reader) (string, error) {
	dec := newDecoder(r)

	var parts []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			if text := strings.TrimSpace(string(cd)); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " "), nil
}
