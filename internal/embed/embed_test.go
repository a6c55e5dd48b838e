package embed

import (
	"context"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

func TestNewProvider(t *testing.T) {
	p, err := New(model.EmbeddingConfig{Provider: ""})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p != nil {
		t.Error("empty provider must yield nil")
	}

	p, err = New(model.EmbeddingConfig{Provider: "mock", Dimensions: 16})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name() != "mock" || p.Dimensions() != 16 {
		t.Errorf("unexpected provider %s/%d", p.Name(), p.Dimensions())
	}

	if _, err := New(model.EmbeddingConfig{Provider: "faiss"}); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider(64)
	ctx := context.Background()

	a, err := p.Embed(ctx, "aspirin inhibits cyclooxygenase")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := p.Embed(ctx, "aspirin inhibits cyclooxygenase")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same text produced different vectors")
	}

	c, err := p.Embed(ctx, "completely different text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("different texts produced identical vectors")
	}
}

func TestMockProviderUnitNorm(t *testing.T) {
	p := NewMockProvider(384)
	vec, err := p.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 384 {
		t.Fatalf("expected 384 dimensions, got %d", len(vec))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-3 {
		t.Errorf("vector norm = %f, want 1", math.Sqrt(norm))
	}
}

func TestMockProviderDefaultDims(t *testing.T) {
	if p := NewMockProvider(0); p.Dimensions() != 384 {
		t.Errorf("default dimensions = %d, want 384", p.Dimensions())
	}
}

func TestStoreAddGet(t *testing.T) {
	s := NewStore()
	s.Add(Item{ID: "a", Text: "first", Vector: []float32{1, 0}})
	s.Add(Item{ID: "b", Text: "second", Vector: []float32{0, 1}})
	s.Add(Item{ID: "a", Text: "replaced", Vector: []float32{1, 1}})

	if s.Len() != 2 {
		t.Errorf("expected 2 items after replace, got %d", s.Len())
	}
	item, ok := s.Get("a")
	if !ok || item.Text != "replaced" {
		t.Errorf("Get(a) = %+v, %v", item, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) reported success")
	}
}

func TestStoreSearch(t *testing.T) {
	s := NewStore()
	s.Add(Item{ID: "x", Vector: []float32{1, 0}})
	s.Add(Item{ID: "y", Vector: []float32{0.9, 0.1}})
	s.Add(Item{ID: "z", Vector: []float32{0, 1}})

	matches := s.Search([]float32{1, 0}, 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Item.ID != "x" || matches[1].Item.ID != "y" {
		t.Errorf("match order = %s, %s", matches[0].Item.ID, matches[1].Item.ID)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("matches not sorted best first")
	}
}

func TestStoreSearchTieBreaksOnID(t *testing.T) {
	s := NewStore()
	s.Add(Item{ID: "b", Vector: []float32{1, 0}})
	s.Add(Item{ID: "a", Vector: []float32{1, 0}})

	matches := s.Search([]float32{1, 0}, 0)
	if matches[0].Item.ID != "a" {
		t.Errorf("tie should resolve to lower id first, got %s", matches[0].Item.ID)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	p := NewMockProvider(8)
	s := NewStore()
	for _, text := range []string{"alpha", "beta", "gamma"} {
		vec, err := p.Embed(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		s.Add(Item{ID: text, Text: text, Vector: vec, Metadata: map[string]string{"source_ref": "doc"}})
	}

	path := filepath.Join(t.TempDir(), "vectors.json")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if loaded.Len() != s.Len() {
		t.Fatalf("loaded %d items, want %d", loaded.Len(), s.Len())
	}
	for _, text := range []string{"alpha", "beta", "gamma"} {
		orig, _ := s.Get(text)
		got, ok := loaded.Get(text)
		if !ok || !reflect.DeepEqual(orig, got) {
			t.Errorf("item %q did not round-trip", text)
		}
	}
}

func TestLoadStoreMissing(t *testing.T) {
	if _, err := LoadStore(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("cosine of identical vectors = %f", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("cosine of orthogonal vectors = %f", got)
	}
	if got := cosine([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("cosine of mismatched lengths = %f", got)
	}
}
