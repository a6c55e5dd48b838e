package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// GraphML was chosen as the interchange format because it round-trips typed
// node/edge attributes as text and every common graph tool reads it. The
// encoder declares one <key> per attribute name; sequence_index is declared
// as int, everything else as string.

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

// keyTypes maps well-known attribute names to their GraphML attr.type.
var keyTypes = map[string]string{
	AttrSequenceIndex: "int",
}

type graphmlFile struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source   string        `xml:"source,attr"`
	Target   string        `xml:"target,attr"`
	Directed string        `xml:"directed,attr,omitempty"`
	Data     []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Encode writes the graph as GraphML. Output is deterministic: nodes in
// insertion order, attribute keys sorted.
func Encode(g *Graph, w io.Writer) error {
	nodeKeys := collectKeys(g, "node")
	edgeKeys := collectKeys(g, "edge")

	file := graphmlFile{
		Xmlns: graphmlNS,
		Graph: graphmlGraph{ID: "G", EdgeDefault: "directed"},
	}

	nodeKeyIDs := make(map[string]string, len(nodeKeys))
	for i, name := range nodeKeys {
		id := fmt.Sprintf("n%d", i)
		nodeKeyIDs[name] = id
		file.Keys = append(file.Keys, graphmlKey{ID: id, For: "node", Name: name, Type: attrType(name)})
	}
	edgeKeyIDs := make(map[string]string, len(edgeKeys))
	for i, name := range edgeKeys {
		id := fmt.Sprintf("e%d", i)
		edgeKeyIDs[name] = id
		file.Keys = append(file.Keys, graphmlKey{ID: id, For: "edge", Name: name, Type: attrType(name)})
	}

	for _, n := range g.Nodes() {
		gn := graphmlNode{ID: n.ID}
		for _, name := range sortedAttrNames(n.Attrs) {
			gn.Data = append(gn.Data, graphmlData{Key: nodeKeyIDs[name], Value: n.Attrs[name]})
		}
		file.Graph.Nodes = append(file.Graph.Nodes, gn)
	}

	for _, e := range g.Edges() {
		ge := graphmlEdge{Source: e.Source, Target: e.Target}
		if e.Undirected {
			ge.Directed = "false"
		}
		ge.Data = append(ge.Data, graphmlData{Key: edgeKeyIDs[AttrRelationType], Value: string(e.Type)})
		for _, name := range sortedAttrNames(e.Attrs) {
			ge.Data = append(ge.Data, graphmlData{Key: edgeKeyIDs[name], Value: e.Attrs[name]})
		}
		file.Graph.Edges = append(file.Graph.Edges, ge)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(file); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads a GraphML document back into a Graph. Malformed records fail
// with a ParseError naming the offending node or edge; the decode is
// all-or-nothing, never a partial graph.
func Decode(r io.Reader) (*Graph, error) {
	var file graphmlFile
	if err := xml.NewDecoder(r).Decode(&file); err != nil {
		return nil, &ParseError{Record: "document", Reason: err.Error()}
	}

	keyNames := make(map[string]string, len(file.Keys)) // key id -> attr name
	for _, k := range file.Keys {
		if k.ID == "" || k.Name == "" {
			return nil, &ParseError{Record: "key " + k.ID, Reason: "missing id or attr.name"}
		}
		keyNames[k.ID] = k.Name
	}

	g := New()
	for i, n := range file.Graph.Nodes {
		if n.ID == "" {
			return nil, &ParseError{Record: fmt.Sprintf("node #%d", i), Reason: "missing id"}
		}
		if g.HasNode(n.ID) {
			return nil, &ParseError{Record: "node " + n.ID, Reason: "duplicate id"}
		}
		attrs := Attrs{}
		for _, d := range n.Data {
			name, ok := keyNames[d.Key]
			if !ok {
				return nil, &ParseError{Record: "node " + n.ID, Reason: "undeclared key " + d.Key}
			}
			attrs[name] = d.Value
		}
		g.AddNode(n.ID, attrs)
	}

	for i, e := range file.Graph.Edges {
		record := fmt.Sprintf("edge #%d (%s -> %s)", i, e.Source, e.Target)
		if e.Source == "" || e.Target == "" {
			return nil, &ParseError{Record: record, Reason: "missing source or target"}
		}
		if !g.HasNode(e.Source) {
			return nil, &ParseError{Record: record, Reason: "source node not declared"}
		}
		if !g.HasNode(e.Target) {
			return nil, &ParseError{Record: record, Reason: "target node not declared"}
		}

		edge := Edge{Source: e.Source, Target: e.Target, Undirected: e.Directed == "false", Attrs: Attrs{}}
		for _, d := range e.Data {
			name, ok := keyNames[d.Key]
			if !ok {
				return nil, &ParseError{Record: record, Reason: "undeclared key " + d.Key}
			}
			if name == AttrRelationType {
				edge.Type = model.RelationType(d.Value)
				continue
			}
			edge.Attrs[name] = d.Value
		}
		if edge.Type == "" {
			return nil, &ParseError{Record: record, Reason: "missing relation_type"}
		}
		g.AddEdge(edge)
	}

	return g, nil
}

// Save serializes the graph to a file. I/O failures are wrapped in a
// SerializationError and propagated, never retried here.
func Save(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &SerializationError{Path: path, Op: "write", Err: err}
	}
	if err := Encode(g, f); err != nil {
		f.Close()
		return &SerializationError{Path: path, Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return &SerializationError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// Load reads a graph from a file.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SerializationError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func attrType(name string) string {
	if t, ok := keyTypes[name]; ok {
		return t
	}
	return "string"
}

// collectKeys gathers the attribute names used anywhere in the graph, sorted.
// Edge keys always include relation_type, which every edge carries.
func collectKeys(g *Graph, target string) []string {
	seen := make(map[string]bool)
	if target == "node" {
		for _, n := range g.Nodes() {
			for name := range n.Attrs {
				seen[name] = true
			}
		}
	} else {
		seen[AttrRelationType] = true
		for _, e := range g.Edges() {
			for name := range e.Attrs {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedAttrNames(a Attrs) []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
