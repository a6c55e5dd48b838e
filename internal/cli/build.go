package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mberjans/iffc-chatbot-jules/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	buildOutDir     string
	buildTimeout    time.Duration
	chunkSize       int
	chunkOverlap    int
	chunkUnit       string
	chunkPolicy     string
	directionality  string
	extractProvider string
	embedProvider   string
	noCache         bool
	noIndex         bool
	writeReport     bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <file.xml> [file.xml...]",
	Short: "Build a knowledge graph from XML files",
	Long: `Build parses each XML file, chunks the text, and writes a GraphML
graph plus a chunk index next to it. With an extraction provider the graph
carries deduplicated entity nodes and typed relation edges instead of the
plain chunk sequence.

Example:
  kgraph build corpus.xml
  kgraph build corpus.xml --chunk-size 256 --overlap 32 --unit tokens
  kgraph build corpus.xml --extract lexicon --directionality undirected
  kgraph build a.xml b.xml --out-dir ./graphs --embed mock`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildOutDir, "out-dir", ".", "output directory for artifacts")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 10*time.Minute, "overall build timeout")
	buildCmd.Flags().IntVar(&chunkSize, "chunk-size", 512, "chunk window size")
	buildCmd.Flags().IntVar(&chunkOverlap, "overlap", 64, "chunk overlap (must be smaller than chunk-size)")
	buildCmd.Flags().StringVar(&chunkUnit, "unit", "chars", "chunk unit (chars, tokens)")
	buildCmd.Flags().StringVar(&chunkPolicy, "policy", "concat", "segment handling (concat, segment)")
	buildCmd.Flags().StringVar(&directionality, "directionality", "mirror", "bidirectional relation materialization (mirror, undirected)")
	buildCmd.Flags().StringVar(&extractProvider, "extract", "", "entity extraction provider (lexicon, openai); empty builds a chunk graph")
	buildCmd.Flags().StringVar(&embedProvider, "embed", "", "embedding provider (mock, openai); empty skips vectors")
	buildCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction response cache")
	buildCmd.Flags().BoolVar(&noIndex, "no-index", false, "skip the chunk index artifact")
	buildCmd.Flags().BoolVar(&writeReport, "report", false, "write a JSON and Markdown build report per file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags override the merged configuration only when set
	if cmd.Flags().Changed("chunk-size") {
		cfg.Chunking.Size = chunkSize
	}
	if cmd.Flags().Changed("overlap") {
		cfg.Chunking.Overlap = chunkOverlap
	}
	if cmd.Flags().Changed("unit") {
		cfg.Chunking.Unit = chunkUnit
	}
	if cmd.Flags().Changed("policy") {
		cfg.Chunking.Policy = chunkPolicy
	}
	if cmd.Flags().Changed("directionality") {
		cfg.Graph.Directionality = directionality
	}
	if cmd.Flags().Changed("extract") {
		cfg.Extraction.Provider = extractProvider
	}
	if cmd.Flags().Changed("embed") {
		cfg.Embedding.Provider = embedProvider
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noIndex {
		cfg.Output.WriteIndex = false
	}
	cfg.Output.Dir = buildOutDir

	if cfg.Extraction.Provider == "openai" && cfg.Extraction.APIKey == "" {
		cfg.Extraction.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Extraction.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	if cfg.Embedding.Provider == "openai" && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embedding.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(buildOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	for _, path := range args {
		if verbose {
			fmt.Fprintf(os.Stderr, "Building: %s\n", path)
		}

		report, err := p.BuildFile(ctx, path)
		if err != nil {
			return fmt.Errorf("build %s: %w", path, err)
		}

		jsonPath, mdPath := "", ""
		if writeReport {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			jsonPath = filepath.Join(buildOutDir, stem+".report.json")
			mdPath = filepath.Join(buildOutDir, stem+".report.md")
		}
		if err := p.RenderReport(report, jsonPath, mdPath, verbose); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}

	return nil
}
