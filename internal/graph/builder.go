package graph

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// Well-known attribute names shared by the builder, the serializer, and the
// indexer.
const (
	AttrText          = "text"
	AttrSourceRef     = "source_ref"
	AttrSequenceIndex = "sequence_index"
	AttrEntityType    = "entity_type"
	AttrChunks        = "chunks" // comma-joined source chunk ids on entity nodes
	AttrRelationType  = "relation_type"
)

// Directionality decides how bidirectional relation types are materialized.
// The choice applies to the whole graph, never per edge.
type Directionality string

const (
	// DirectionalityMirror materializes a bidirectional relation as two
	// directed edges
	DirectionalityMirror Directionality = "mirror"
	// DirectionalityUndirected materializes it as one edge flagged undirected
	DirectionalityUndirected Directionality = "undirected"
)

// BuildChunkGraph constructs the sequential-variant graph: one node per chunk
// and one SEQUENTIAL edge between adjacent chunks of the same source document.
// Chunks from different documents never receive a connecting edge.
//
// Zero chunks yield a valid empty graph. Chunks without an id, or with an id
// already taken, are dropped and reported; the build continues.
func BuildChunkGraph(chunks []model.TextChunk) (*Graph, []*ConstructionError) {
	g := New()
	var rejected []*ConstructionError

	// Nodes first, in input order.
	bySource := make(map[string][]model.TextChunk)
	var sourceOrder []string
	for _, c := range chunks {
		if c.ID == "" {
			rejected = append(rejected, &ConstructionError{
				Item: "chunk", ID: c.SourceRef, Reason: "empty chunk id",
			})
			continue
		}
		if g.HasNode(c.ID) {
			rejected = append(rejected, &ConstructionError{
				Item: "chunk", ID: c.ID, Reason: "duplicate chunk id",
			})
			continue
		}
		g.AddNode(c.ID, Attrs{
			AttrText:          c.Text,
			AttrSourceRef:     c.SourceRef,
			AttrSequenceIndex: strconv.Itoa(c.SequenceIndex),
		})
		if _, seen := bySource[c.SourceRef]; !seen {
			sourceOrder = append(sourceOrder, c.SourceRef)
		}
		bySource[c.SourceRef] = append(bySource[c.SourceRef], c)
	}

	// Sequential edges within each document, ordered by sequence index.
	for _, src := range sourceOrder {
		docChunks := bySource[src]
		sort.Slice(docChunks, func(i, j int) bool {
			return docChunks[i].SequenceIndex < docChunks[j].SequenceIndex
		})
		for i := 0; i+1 < len(docChunks); i++ {
			g.AddEdge(Edge{
				Source: docChunks[i].ID,
				Target: docChunks[i+1].ID,
				Type:   model.RelationSequential,
			})
		}
	}

	return g, rejected
}

// EntityNodeID derives the graph node id for an entity. Name alone is not
// unique across types, so the dedup key doubles as the node id.
func EntityNodeID(name string, typ model.EntityType) string {
	return name + "|" + string(typ)
}

// BuildEntityGraphOptions configures the entity-variant build.
type BuildEntityGraphOptions struct {
	Directionality Directionality
	// KnownChunks, when non-nil, is the set of chunk ids produced by this
	// run; entities referencing a chunk outside it are rejected.
	KnownChunks map[string]bool
}

// BuildEntityGraph constructs the entity-variant graph: one node per distinct
// (name, type) pair with all source chunk references retained, and one edge
// per relation. Relations referencing an entity absent from the entity set are
// dropped and reported, never silently ignored and never fatal to the build.
func BuildEntityGraph(entities []model.Entity, relations []model.Relation, opts BuildEntityGraphOptions) (*Graph, []*ConstructionError) {
	if opts.Directionality == "" {
		opts.Directionality = DirectionalityMirror
	}

	g := New()
	var rejected []*ConstructionError

	// sources collects the chunk back-references per node; two extractions of
	// the same entity from different chunks merge into one node with both
	// references retained.
	sources := make(map[string]map[string]bool)

	for _, e := range entities {
		if e.Name == "" {
			rejected = append(rejected, &ConstructionError{
				Item: "entity", ID: string(e.Type), Reason: "empty entity name",
			})
			continue
		}
		if e.SourceChunkID == "" {
			rejected = append(rejected, &ConstructionError{
				Item: "entity", ID: e.Key(), Reason: "missing source chunk id",
			})
			continue
		}
		if opts.KnownChunks != nil && !opts.KnownChunks[e.SourceChunkID] {
			rejected = append(rejected, &ConstructionError{
				Item: "entity", ID: e.Key(),
				Reason: "source chunk " + e.SourceChunkID + " not found",
			})
			continue
		}

		id := EntityNodeID(e.Name, e.Type)
		g.AddNode(id, Attrs{
			AttrText:       e.Name,
			AttrEntityType: string(e.Type),
		})
		if sources[id] == nil {
			sources[id] = make(map[string]bool)
		}
		sources[id][e.SourceChunkID] = true
	}

	// Materialize the merged chunk references deterministically.
	for id, set := range sources {
		ids := make([]string, 0, len(set))
		for cid := range set {
			ids = append(ids, cid)
		}
		sort.Strings(ids)
		g.Node(id).Attrs[AttrChunks] = strings.Join(ids, ",")
	}

	for _, r := range relations {
		srcID := EntityNodeID(r.SourceName, r.SourceType)
		tgtID := EntityNodeID(r.TargetName, r.TargetType)

		if !g.HasNode(srcID) || !g.HasNode(tgtID) {
			missing := srcID
			if g.HasNode(srcID) {
				missing = tgtID
			}
			rejected = append(rejected, &ConstructionError{
				Item:   "relation",
				ID:     srcID + " -> " + tgtID,
				Reason: "unknown entity " + missing,
			})
			continue
		}

		attrs := Attrs{}
		if r.SourceChunkID != "" {
			attrs[AttrChunks] = r.SourceChunkID
		}

		if r.Type.Bidirectional() && opts.Directionality == DirectionalityUndirected {
			g.AddEdge(Edge{Source: srcID, Target: tgtID, Type: r.Type, Undirected: true, Attrs: attrs})
			continue
		}
		g.AddEdge(Edge{Source: srcID, Target: tgtID, Type: r.Type, Attrs: attrs})
		if r.Type.Bidirectional() {
			g.AddEdge(Edge{Source: tgtID, Target: srcID, Type: r.Type, Attrs: cloneAttrs(attrs)})
		}
	}

	return g, rejected
}

func cloneAttrs(a Attrs) Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
