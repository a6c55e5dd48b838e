package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Renderer writes build reports as JSON, Markdown, and a stdout summary
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Knowledge Graph Build Report\n\n")
	fmt.Fprintf(&b, "**Source:** %s\n\n", report.Source)
	fmt.Fprintf(&b, "**Started:** %s\n\n", report.StartedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "**Duration:** %s\n\n", report.Duration.Round(time.Millisecond))

	fmt.Fprintf(&b, "## Documents\n\n")
	fmt.Fprintf(&b, "| ID | Title | Chunks |\n")
	fmt.Fprintf(&b, "|---|---|---|\n")
	for _, doc := range report.Documents {
		title := doc.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %d |\n", doc.ID, title, doc.Chunks)
	}

	fmt.Fprintf(&b, "\n## Graph\n\n")
	fmt.Fprintf(&b, "- Chunks: %d\n", report.Chunks)
	if report.Entities > 0 || report.Relations > 0 {
		fmt.Fprintf(&b, "- Entities: %d\n", report.Entities)
		fmt.Fprintf(&b, "- Relations: %d\n", report.Relations)
	}
	fmt.Fprintf(&b, "- Nodes: %d\n", report.Nodes)
	fmt.Fprintf(&b, "- Edges: %d\n", report.Edges)

	if len(report.Skipped) > 0 {
		fmt.Fprintf(&b, "\n## Skipped Items\n\n")
		for _, s := range report.Skipped {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	fmt.Fprintf(&b, "\n## Artifacts\n\n")
	fmt.Fprintf(&b, "- Graph: %s\n", report.GraphPath)
	if report.IndexPath != "" {
		fmt.Fprintf(&b, "- Index: %s\n", report.IndexPath)
	}
	if report.VectorsPath != "" {
		fmt.Fprintf(&b, "- Vectors: %s\n", report.VectorsPath)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a short summary to stdout.
func (r *Renderer) RenderSummary(report *Report) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("Source:    %s\n", report.Source)
	fmt.Printf("Documents: %d  Chunks: %d\n", len(report.Documents), report.Chunks)
	if report.Entities > 0 || report.Relations > 0 {
		fmt.Printf("Entities:  %d  Relations: %d\n", report.Entities, report.Relations)
	}
	fmt.Printf("Graph:     %d nodes, %d edges\n", report.Nodes, report.Edges)
	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped:   %d items\n", len(report.Skipped))
	}
	fmt.Printf("Wrote:     %s\n", report.GraphPath)
	fmt.Printf("%s\n", strings.Repeat("=", 60))
}
