package graph

import (
	"sort"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// Attrs holds typed node or edge attributes as strings. Numeric attributes
// keep their declared GraphML type through the key table in graphml.go.
type Attrs map[string]string

// Node is one graph node: a chunk or a deduplicated entity
type Node struct {
	ID    string
	Attrs Attrs
}

// Edge is one directed (or explicitly undirected) edge
type Edge struct {
	Source     string
	Target     string
	Type       model.RelationType
	Undirected bool
	Attrs      Attrs
}

// Graph is a directed graph with attribute-carrying nodes and edges. It is
// assembled once per run and treated as read-only after serialization;
// insertion order is preserved so serialization is deterministic.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode inserts a node, or returns the existing one when the id is already
// present. Callers that need merge semantics mutate the returned node's attrs.
func (g *Graph) AddNode(id string, attrs Attrs) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	n := &Node{ID: id, Attrs: attrs}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// AddEdge appends an edge. Endpoint existence is the builder's responsibility;
// the serializer re-checks it when decoding untrusted input.
func (g *Graph) AddEdge(e Edge) {
	if e.Attrs == nil {
		e.Attrs = Attrs{}
	}
	g.edges = append(g.edges, e)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Equal compares two graphs by node-id set, node attributes, and edge
// multiset. Attribute ordering and insertion order are not significant, which
// is exactly the round-trip contract of the serializer.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || len(g.nodes) != len(other.nodes) || len(g.edges) != len(other.edges) {
		return false
	}
	for id, n := range g.nodes {
		m := other.nodes[id]
		if m == nil || !attrsEqual(n.Attrs, m.Attrs) {
			return false
		}
	}
	return edgeFingerprints(g.edges) == edgeFingerprints(other.edges)
}

func attrsEqual(a, b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// edgeFingerprints reduces an edge list to an order-insensitive string form.
func edgeFingerprints(edges []Edge) string {
	keys := make([]string, 0, len(edges))
	for _, e := range edges {
		fp := e.Source + "\x00" + e.Target + "\x00" + string(e.Type)
		if e.Undirected {
			fp += "\x00undirected"
		}
		attrKeys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			attrKeys = append(attrKeys, k)
		}
		sort.Strings(attrKeys)
		for _, k := range attrKeys {
			fp += "\x00" + k + "=" + e.Attrs[k]
		}
		keys = append(keys, fp)
	}
	sort.Strings(keys)
	joined := ""
	for _, k := range keys {
		joined += k + "\x01"
	}
	return joined
}
