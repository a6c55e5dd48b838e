package graph

import (
	"strings"
	"testing"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

func chunk(source string, index int, text string) model.TextChunk {
	return model.TextChunk{
		ID:            model.ChunkID(source, index),
		Text:          text,
		SourceRef:     source,
		SequenceIndex: index,
	}
}

func TestBuildChunkGraphTwoDocuments(t *testing.T) {
	chunks := []model.TextChunk{
		chunk("docA", 0, "a0"),
		chunk("docA", 1, "a1"),
		chunk("docA", 2, "a2"),
		chunk("docB", 0, "b0"),
		chunk("docB", 1, "b1"),
	}

	g, rejected := BuildChunkGraph(chunks)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if g.NumNodes() != 5 {
		t.Errorf("expected 5 nodes, got %d", g.NumNodes())
	}
	if g.NumEdges() != 3 {
		t.Errorf("expected 3 edges, got %d", g.NumEdges())
	}

	// No edge may cross document boundaries
	for _, e := range g.Edges() {
		srcDoc := g.Node(e.Source).Attrs[AttrSourceRef]
		tgtDoc := g.Node(e.Target).Attrs[AttrSourceRef]
		if srcDoc != tgtDoc {
			t.Errorf("edge %s -> %s crosses documents %s and %s", e.Source, e.Target, srcDoc, tgtDoc)
		}
		if e.Type != model.RelationSequential {
			t.Errorf("edge %s -> %s has type %s", e.Source, e.Target, e.Type)
		}
	}
}

func TestBuildChunkGraphOrdersBySequenceIndex(t *testing.T) {
	// Input order is not sequence order
	chunks := []model.TextChunk{
		chunk("doc", 2, "c"),
		chunk("doc", 0, "a"),
		chunk("doc", 1, "b"),
	}

	g, rejected := BuildChunkGraph(chunks)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0].Source != model.ChunkID("doc", 0) || edges[0].Target != model.ChunkID("doc", 1) {
		t.Errorf("first edge is %s -> %s", edges[0].Source, edges[0].Target)
	}
	if edges[1].Source != model.ChunkID("doc", 1) || edges[1].Target != model.ChunkID("doc", 2) {
		t.Errorf("second edge is %s -> %s", edges[1].Source, edges[1].Target)
	}
}

func TestBuildChunkGraphRejections(t *testing.T) {
	chunks := []model.TextChunk{
		chunk("doc", 0, "a"),
		{ID: "", SourceRef: "doc", SequenceIndex: 1, Text: "no id"},
		chunk("doc", 0, "duplicate"),
		chunk("doc", 1, "b"),
	}

	g, rejected := BuildChunkGraph(chunks)
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %d: %v", len(rejected), rejected)
	}
	if rejected[0].Reason != "empty chunk id" {
		t.Errorf("first rejection: %s", rejected[0].Reason)
	}
	if rejected[1].Reason != "duplicate chunk id" {
		t.Errorf("second rejection: %s", rejected[1].Reason)
	}

	// The build continues around rejected items
	if g.NumNodes() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NumNodes())
	}
	if g.NumEdges() != 1 {
		t.Errorf("expected 1 edge, got %d", g.NumEdges())
	}
}

func TestBuildChunkGraphEmpty(t *testing.T) {
	g, rejected := BuildChunkGraph(nil)
	if len(rejected) != 0 {
		t.Errorf("unexpected rejections: %v", rejected)
	}
	if g.NumNodes() != 0 || g.NumEdges() != 0 {
		t.Errorf("expected an empty graph, got %d nodes %d edges", g.NumNodes(), g.NumEdges())
	}
}

func TestBuildEntityGraphDedupRetainsSources(t *testing.T) {
	entities := []model.Entity{
		{Name: "aspirin", Type: model.EntityDrug, SourceChunkID: "doc:0001"},
		{Name: "aspirin", Type: model.EntityDrug, SourceChunkID: "doc:0000"},
		{Name: "headache", Type: model.EntitySymptom, SourceChunkID: "doc:0001"},
	}

	g, rejected := BuildEntityGraph(entities, nil, BuildEntityGraphOptions{})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if g.NumNodes() != 2 {
		t.Fatalf("expected 2 nodes after dedup, got %d", g.NumNodes())
	}

	n := g.Node(EntityNodeID("aspirin", model.EntityDrug))
	if n == nil {
		t.Fatal("aspirin node missing")
	}
	// Merged chunk references are sorted for determinism
	if got := n.Attrs[AttrChunks]; got != "doc:0000,doc:0001" {
		t.Errorf("merged chunks = %q", got)
	}
	if n.Attrs[AttrEntityType] != string(model.EntityDrug) {
		t.Errorf("entity type attr = %q", n.Attrs[AttrEntityType])
	}
}

func TestBuildEntityGraphSameNameDifferentType(t *testing.T) {
	entities := []model.Entity{
		{Name: "insulin", Type: model.EntityDrug, SourceChunkID: "c1"},
		{Name: "insulin", Type: model.EntityGene, SourceChunkID: "c1"},
	}

	g, _ := BuildEntityGraph(entities, nil, BuildEntityGraphOptions{})
	if g.NumNodes() != 2 {
		t.Errorf("same name with different types must stay distinct, got %d nodes", g.NumNodes())
	}
}

func TestBuildEntityGraphRejections(t *testing.T) {
	known := map[string]bool{"c1": true}
	entities := []model.Entity{
		{Name: "", Type: model.EntityDrug, SourceChunkID: "c1"},
		{Name: "aspirin", Type: model.EntityDrug, SourceChunkID: ""},
		{Name: "warfarin", Type: model.EntityDrug, SourceChunkID: "c99"},
		{Name: "ibuprofen", Type: model.EntityDrug, SourceChunkID: "c1"},
	}

	g, rejected := BuildEntityGraph(entities, nil, BuildEntityGraphOptions{KnownChunks: known})
	if len(rejected) != 3 {
		t.Fatalf("expected 3 rejections, got %d: %v", len(rejected), rejected)
	}
	for _, want := range []string{"empty entity name", "missing source chunk id", "not found"} {
		found := false
		for _, r := range rejected {
			if strings.Contains(r.Reason, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("no rejection mentioning %q", want)
		}
	}
	if g.NumNodes() != 1 {
		t.Errorf("expected 1 surviving node, got %d", g.NumNodes())
	}
}

func TestBuildEntityGraphDropsRelationsWithUnknownEntities(t *testing.T) {
	entities := []model.Entity{
		{Name: "aspirin", Type: model.EntityDrug, SourceChunkID: "c1"},
		{Name: "headache", Type: model.EntitySymptom, SourceChunkID: "c1"},
	}
	relations := []model.Relation{
		{
			SourceName: "aspirin", SourceType: model.EntityDrug,
			TargetName: "headache", TargetType: model.EntitySymptom,
			Type: model.RelationTreats, SourceChunkID: "c1",
		},
		{
			SourceName: "aspirin", SourceType: model.EntityDrug,
			TargetName: "fever", TargetType: model.EntitySymptom,
			Type: model.RelationTreats, SourceChunkID: "c1",
		},
	}

	g, rejected := BuildEntityGraph(entities, relations, BuildEntityGraphOptions{})
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d: %v", len(rejected), rejected)
	}
	if !strings.Contains(rejected[0].Reason, "unknown entity") {
		t.Errorf("rejection reason: %s", rejected[0].Reason)
	}
	// TREATS is directional, so one relation yields one edge
	if g.NumEdges() != 1 {
		t.Errorf("expected 1 edge, got %d", g.NumEdges())
	}
}

func TestBuildEntityGraphMirrorDirectionality(t *testing.T) {
	entities := []model.Entity{
		{Name: "BRCA1", Type: model.EntityGene, SourceChunkID: "c1"},
		{Name: "breast cancer", Type: model.EntityDisease, SourceChunkID: "c1"},
	}
	relations := []model.Relation{
		{
			SourceName: "BRCA1", SourceType: model.EntityGene,
			TargetName: "breast cancer", TargetType: model.EntityDisease,
			Type: model.RelationAssociatedWith,
		},
	}

	g, rejected := BuildEntityGraph(entities, relations, BuildEntityGraphOptions{
		Directionality: DirectionalityMirror,
	})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("mirror must emit 2 edges, got %d", len(edges))
	}
	if edges[0].Source != edges[1].Target || edges[0].Target != edges[1].Source {
		t.Error("mirrored edges do not reverse each other")
	}
	for _, e := range edges {
		if e.Undirected {
			t.Error("mirror edges must stay directed")
		}
	}
}

func TestBuildEntityGraphUndirectedDirectionality(t *testing.T) {
	entities := []model.Entity{
		{Name: "BRCA1", Type: model.EntityGene, SourceChunkID: "c1"},
		{Name: "breast cancer", Type: model.EntityDisease, SourceChunkID: "c1"},
	}
	relations := []model.Relation{
		{
			SourceName: "BRCA1", SourceType: model.EntityGene,
			TargetName: "breast cancer", TargetType: model.EntityDisease,
			Type: model.RelationAssociatedWith,
		},
		{
			SourceName: "breast cancer", SourceType: model.EntityDisease,
			TargetName: "BRCA1", TargetType: model.EntityGene,
			Type: model.RelationManifestsAs,
		},
	}

	g, rejected := BuildEntityGraph(entities, relations, BuildEntityGraphOptions{
		Directionality: DirectionalityUndirected,
	})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	// Bidirectional type collapses to one undirected edge
	if !edges[0].Undirected {
		t.Error("ASSOCIATED_WITH edge should be undirected")
	}
	// Directional types are never affected by the policy
	if edges[1].Undirected {
		t.Error("MANIFESTS_AS edge must stay directed")
	}
}

func TestBuildEntityGraphEmpty(t *testing.T) {
	g, rejected := BuildEntityGraph(nil, nil, BuildEntityGraphOptions{})
	if len(rejected) != 0 {
		t.Errorf("unexpected rejections: %v", rejected)
	}
	if g.NumNodes() != 0 || g.NumEdges() != 0 {
		t.Errorf("expected an empty graph, got %d nodes %d edges", g.NumNodes(), g.NumEdges())
	}
}
