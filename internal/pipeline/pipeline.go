// Package pipeline orchestrates a document build: parse XML, chunk,
// optionally extract entities, construct the graph, and write the artifacts.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mberjans/iffc-chatbot-jules/internal/cache"
	"github.com/mberjans/iffc-chatbot-jules/internal/chunker"
	"github.com/mberjans/iffc-chatbot-jules/internal/embed"
	"github.com/mberjans/iffc-chatbot-jules/internal/extract"
	"github.com/mberjans/iffc-chatbot-jules/internal/graph"
	"github.com/mberjans/iffc-chatbot-jules/internal/model"
	"github.com/mberjans/iffc-chatbot-jules/internal/xmlparse"
)

// Pipeline orchestrates the complete build process
type Pipeline struct {
	extractor extract.Extractor // nil when extraction is disabled
	embedder  embed.Provider    // nil when embedding is disabled
	renderer  *Renderer
	config    model.Config
}

// NewPipeline creates a pipeline from the given configuration. The extraction
// and embedding capabilities are optional; when their providers are empty the
// pipeline builds a chunk graph with no entity layer.
func NewPipeline(cfg model.Config) (*Pipeline, error) {
	var c cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		c = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	extractor, err := extract.New(cfg.Extraction, c)
	if err != nil {
		return nil, fmt.Errorf("extraction provider: %w", err)
	}

	embedder, err := embed.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}

	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		renderer:  NewRenderer(),
		config:    cfg,
	}, nil
}

// DocumentReport summarizes the build of one source document.
type DocumentReport struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Chunks int    `json:"chunks"`
}

// Report is the complete record of one build run.
type Report struct {
	Source      string           `json:"source"`
	StartedAt   time.Time        `json:"started_at"`
	Duration    time.Duration    `json:"duration"`
	Documents   []DocumentReport `json:"documents"`
	Chunks      int              `json:"chunks"`
	Entities    int              `json:"entities"`
	Relations   int              `json:"relations"`
	Nodes       int              `json:"nodes"`
	Edges       int              `json:"edges"`
	Skipped     []string         `json:"skipped,omitempty"`
	GraphPath   string           `json:"graph_path"`
	IndexPath   string           `json:"index_path,omitempty"`
	VectorsPath string           `json:"vectors_path,omitempty"`
}

// BuildFile runs the whole pipeline for one XML file and writes the graph,
// index, and vector artifacts next to each other under the output directory.
// Item-level construction problems are recorded in the report, not fatal.
func (p *Pipeline) BuildFile(ctx context.Context, path string) (*Report, error) {
	started := time.Now().UTC()

	docs, err := xmlparse.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("parse %s: no documents found", path)
	}

	opts := chunker.OptionsFromConfig(p.config.Chunking)
	report := &Report{Source: path, StartedAt: started}

	var chunks []model.TextChunk
	for _, doc := range docs {
		docChunks, err := chunker.Chunk(doc, opts)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", doc.ID, err)
		}
		chunks = append(chunks, docChunks...)
		report.Documents = append(report.Documents, DocumentReport{
			ID:     doc.ID,
			Title:  doc.Title,
			Chunks: len(docChunks),
		})
	}
	report.Chunks = len(chunks)

	g, err := p.buildGraph(ctx, chunks, report)
	if err != nil {
		return nil, err
	}
	report.Nodes = g.NumNodes()
	report.Edges = g.NumEdges()

	stem := artifactStem(path)
	outDir := p.config.Output.Dir

	report.GraphPath = filepath.Join(outDir, stem+".graphml")
	if err := graph.Save(g, report.GraphPath); err != nil {
		return nil, err
	}

	if p.config.Output.WriteIndex {
		report.IndexPath = filepath.Join(outDir, stem+".index.json")
		if err := graph.SaveIndex(graph.BuildIndex(g), report.IndexPath); err != nil {
			return nil, err
		}
	}

	if p.embedder != nil {
		report.VectorsPath = filepath.Join(outDir, stem+".vectors.json")
		if err := p.embedChunks(ctx, chunks, report.VectorsPath); err != nil {
			return nil, err
		}
	}

	report.Duration = time.Since(started)
	return report, nil
}

// buildGraph produces either the chunk graph or, when an extractor is
// configured, the entity graph with co-occurrence relations.
func (p *Pipeline) buildGraph(ctx context.Context, chunks []model.TextChunk, report *Report) (*graph.Graph, error) {
	if p.extractor == nil {
		g, skipped := graph.BuildChunkGraph(chunks)
		recordSkips(report, skipped)
		return g, nil
	}

	known := make(map[string]bool, len(chunks))
	var entities []model.Entity
	for _, ch := range chunks {
		known[ch.ID] = true
		found, err := p.extractor.Extract(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", ch.ID, err)
		}
		entities = append(entities, found...)
	}
	report.Entities = len(entities)

	relations := extract.CooccurrenceRelations(entities)
	report.Relations = len(relations)

	g, skipped := graph.BuildEntityGraph(entities, relations, graph.BuildEntityGraphOptions{
		Directionality: graph.Directionality(p.config.Graph.Directionality),
		KnownChunks:    known,
	})
	recordSkips(report, skipped)
	return g, nil
}

func (p *Pipeline) embedChunks(ctx context.Context, chunks []model.TextChunk, path string) error {
	store := embed.NewStore()
	for _, ch := range chunks {
		vec, err := p.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", ch.ID, err)
		}
		store.Add(embed.Item{
			ID:     ch.ID,
			Text:   ch.Text,
			Vector: vec,
			Metadata: map[string]string{
				"source_ref":     ch.SourceRef,
				"sequence_index": fmt.Sprintf("%d", ch.SequenceIndex),
			},
		})
	}
	return store.Save(path)
}

// RenderReport writes the report artifacts and prints the stdout summary.
func (p *Pipeline) RenderReport(report *Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

func recordSkips(report *Report, skipped []*graph.ConstructionError) {
	for _, e := range skipped {
		report.Skipped = append(report.Skipped, e.Error())
	}
}

// artifactStem derives the artifact base name from the input path.
func artifactStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
