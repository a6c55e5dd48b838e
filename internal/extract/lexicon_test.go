package extract

import (
	"context"
	"reflect"
	"testing"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

func TestLexiconExtract(t *testing.T) {
	e := NewLexiconExtractor()
	chunk := model.TextChunk{
		ID:   "doc:0000",
		Text: "Aspirin provides pain relief and reduces fever in patients.",
	}

	entities, err := e.Extract(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	var names []string
	for _, ent := range entities {
		names = append(names, ent.Name)
		if ent.SourceChunkID != "doc:0000" {
			t.Errorf("entity %q has source chunk %q", ent.Name, ent.SourceChunkID)
		}
	}
	// "pain relief" must win over "pain", matches come left to right
	want := []string{"aspirin", "pain relief", "fever"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %q, want %q", names, want)
	}
}

func TestLexiconExtractTypes(t *testing.T) {
	e := NewLexiconExtractor()
	chunk := model.TextChunk{
		ID:   "c1",
		Text: "Metformin treats type 2 diabetes by acting on the liver.",
	}

	entities, err := e.Extract(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	got := make(map[string]model.EntityType, len(entities))
	for _, ent := range entities {
		got[ent.Name] = ent.Type
	}
	want := map[string]model.EntityType{
		"metformin":       model.EntityDrug,
		"type 2 diabetes": model.EntityDisease,
		"liver":           model.EntityAnatomy,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entities = %v, want %v", got, want)
	}
}

func TestLexiconExtractWordBoundaries(t *testing.T) {
	e := NewLexiconExtractor()
	// "cancer" inside "cancerous" and "heart" inside "hearts" must not match
	chunk := model.TextChunk{ID: "c1", Text: "Precancerous lesions; sweethearts."}

	entities, err := e.Extract(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("expected no matches inside words, got %v", entities)
	}
}

func TestLexiconExtractOffsets(t *testing.T) {
	e := NewLexiconExtractor()
	chunk := model.TextChunk{ID: "c1", Text: "Chronic headache."}

	entities, err := e.Extract(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	ent := entities[0]
	if ent.StartChar != 8 || ent.EndChar != 16 {
		t.Errorf("offsets = [%d, %d), want [8, 16)", ent.StartChar, ent.EndChar)
	}
}

func TestLexiconExtractDeterministic(t *testing.T) {
	e := NewLexiconExtractor()
	chunk := model.TextChunk{
		ID:   "c1",
		Text: "Insulin, metformin and aspirin; fever, headache, nausea; apoptosis.",
	}

	first, err := e.Extract(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := e.Extract(context.Background(), chunk)
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different entity sequence", i)
		}
	}
}
