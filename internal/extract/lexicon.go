package extract

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// LexiconExtractor matches a fixed biomedical term list against chunk text.
// It has no model behind it and is fully deterministic: the same chunk always
// yields the same entities in left-to-right order.
type LexiconExtractor struct {
	terms map[string]model.EntityType
	// longest-first so "type 2 diabetes" wins over "diabetes"
	ordered []string
}

// NewLexiconExtractor creates the extractor with the built-in term list.
func NewLexiconExtractor() *LexiconExtractor {
	terms := map[string]model.EntityType{
		"diabetes":        model.EntityDisease,
		"type 2 diabetes": model.EntityDisease,
		"cancer":          model.EntityDisease,
		"hypertension":    model.EntityDisease,
		"asthma":          model.EntityDisease,
		"alzheimer":       model.EntityDisease,
		"influenza":       model.EntityDisease,

		"aspirin":       model.EntityDrug,
		"metformin":     model.EntityDrug,
		"ibuprofen":     model.EntityDrug,
		"insulin":       model.EntityDrug,
		"penicillin":    model.EntityDrug,
		"acetaminophen": model.EntityDrug,

		"interleukin-6": model.EntityGene,
		"tnf-alpha":     model.EntityGene,
		"p53":           model.EntityGene,
		"brca1":         model.EntityGene,
		"cytokine":      model.EntityGene,

		"fever":       model.EntitySymptom,
		"headache":    model.EntitySymptom,
		"fatigue":     model.EntitySymptom,
		"nausea":      model.EntitySymptom,
		"pain":        model.EntitySymptom,
		"pain relief": model.EntitySymptom,

		"chemotherapy": model.EntityProcedure,
		"biopsy":       model.EntityProcedure,
		"dialysis":     model.EntityProcedure,
		"vaccination":  model.EntityProcedure,

		"liver":    model.EntityAnatomy,
		"pancreas": model.EntityAnatomy,
		"heart":    model.EntityAnatomy,
		"kidney":   model.EntityAnatomy,
		"lung":     model.EntityAnatomy,

		"glycolysis":        model.EntityPathway,
		"apoptosis":         model.EntityPathway,
		"inflammation":      model.EntityPathway,
		"insulin signaling": model.EntityPathway,
		"immune response":   model.EntityPathway,
	}

	ordered := make([]string, 0, len(terms))
	for term := range terms {
		ordered = append(ordered, term)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})

	return &LexiconExtractor{terms: terms, ordered: ordered}
}

// Name returns the provider name
func (e *LexiconExtractor) Name() string {
	return "lexicon"
}

// Extract scans the chunk for known terms on word boundaries. Each match
// becomes one entity carrying the chunk id and character offsets; overlapping
// matches resolve to the longest term.
func (e *LexiconExtractor) Extract(_ context.Context, chunk model.TextChunk) ([]model.Entity, error) {
	lower := strings.ToLower(chunk.Text)
	claimed := make([]bool, len(lower))

	type match struct {
		start int
		term  string
	}
	var matches []match

	for _, term := range e.ordered {
		from := 0
		for {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(term)
			from = start + 1

			if !boundary(lower, start, end) || anyClaimed(claimed, start, end) {
				continue
			}
			for j := start; j < end; j++ {
				claimed[j] = true
			}
			matches = append(matches, match{start: start, term: term})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	entities := make([]model.Entity, 0, len(matches))
	for _, m := range matches {
		entities = append(entities, model.Entity{
			Name:          m.term,
			Type:          e.terms[m.term],
			SourceChunkID: chunk.ID,
			StartChar:     m.start,
			EndChar:       m.start + len(m.term),
		})
	}
	return entities, nil
}

// boundary reports whether [start, end) sits on word boundaries.
func boundary(text string, start, end int) bool {
	if start > 0 {
		if r := rune(text[start-1]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		if r := rune(text[end]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func anyClaimed(claimed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}
