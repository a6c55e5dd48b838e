package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Index maps graph node ids back to their source chunk ids. It is derived
// data for traceability queries; the attributes embedded in the graph remain
// the source of truth.
type Index map[string][]string

// BuildIndex derives the index from the graph's own attributes. Chunk nodes
// reference themselves; entity nodes expand their merged chunk list.
func BuildIndex(g *Graph) Index {
	idx := make(Index, g.NumNodes())
	for _, n := range g.Nodes() {
		if chunks, ok := n.Attrs[AttrChunks]; ok {
			idx[n.ID] = strings.Split(chunks, ",")
			continue
		}
		if _, ok := n.Attrs[AttrSequenceIndex]; ok {
			// A chunk node's id is the chunk id.
			idx[n.ID] = []string{n.ID}
		}
	}
	return idx
}

// Validate checks the index against the graph: no entry may reference a node
// absent from the graph, and entries must agree with the embedded attributes.
func (idx Index) Validate(g *Graph) error {
	for nodeID, chunks := range idx {
		n := g.Node(nodeID)
		if n == nil {
			return fmt.Errorf("index entry %q references a node absent from the graph", nodeID)
		}
		if merged, ok := n.Attrs[AttrChunks]; ok && merged != strings.Join(chunks, ",") {
			return fmt.Errorf("index entry %q disagrees with node attribute %q", nodeID, AttrChunks)
		}
	}
	return nil
}

// SaveIndex writes the index as JSON.
func SaveIndex(idx Index, path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return &SerializationError{Path: path, Op: "write", Err: err}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return &SerializationError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// LoadIndex reads an index written by SaveIndex.
func LoadIndex(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SerializationError{Path: path, Op: "read", Err: err}
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &ParseError{Record: path, Reason: err.Error()}
	}
	return idx, nil
}
