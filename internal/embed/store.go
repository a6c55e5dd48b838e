package embed

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Item is one stored vector with its source text and traceability metadata
type Item struct {
	ID       string            `json:"id"` // chunk or entity node id
	Text     string            `json:"text"`
	Vector   []float32         `json:"vector"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store is a file-backed vector collection with brute-force cosine search.
// It stands in for an external vector database, which is outside this
// pipeline's scope; artifacts stay human-inspectable JSON.
type Store struct {
	items []Item
	byID  map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Add inserts or replaces an item by id.
func (s *Store) Add(item Item) {
	if i, ok := s.byID[item.ID]; ok {
		s.items[i] = item
		return
	}
	s.byID[item.ID] = len(s.items)
	s.items = append(s.items, item)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	if i, ok := s.byID[id]; ok {
		return s.items[i], true
	}
	return Item{}, false
}

// Len returns the number of stored items.
func (s *Store) Len() int { return len(s.items) }

// Match is one search result
type Match struct {
	Item       Item
	Similarity float64
}

// Search returns the k items most similar to the query vector, best first.
// Ties break on item id so results are deterministic.
func (s *Store) Search(query []float32, k int) []Match {
	matches := make([]Match, 0, len(s.items))
	for _, item := range s.items {
		matches = append(matches, Match{Item: item, Similarity: cosine(query, item.Vector)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Item.ID < matches[j].Item.ID
	})
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches
}

// Save writes the store as JSON.
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal vector store: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write vector store %s: %w", path, err)
	}
	return nil
}

// LoadStore reads a store written by Save.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vector store %s: %w", path, err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse vector store %s: %w", path, err)
	}
	s := NewStore()
	for _, item := range items {
		s.Add(item)
	}
	return s, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
