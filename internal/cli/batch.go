package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mberjans/iffc-chatbot-jules/internal/pipeline"
	"github.com/mberjans/iffc-chatbot-jules/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Build graphs for multiple XML files in parallel",
	Long: `Batch builds many XML files concurrently:
- Read file paths from a list file (one per line, # comments allowed)
- Build each file on its own worker with its own graph
- Write per-file GraphML, index, and report artifacts

Example:
  kgraph batch files.txt
  kgraph batch files.txt --concurrency 8 --out-dir ./graphs
  kgraph batch files.txt --extract lexicon --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "./kgraph-out", "output directory for artifacts")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared with build
	batchCmd.Flags().StringVar(&extractProvider, "extract", "", "entity extraction provider (lexicon, openai)")
	batchCmd.Flags().StringVar(&embedProvider, "embed", "", "embedding provider (mock, openai)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction response cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  kgraph Batch Build\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", listFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := loadConfig()
	if err != nil {
		return err
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
	cfg.Workers.BuildWorkers = concurrency
	cfg.Output.Dir = batchOutDir

	if cfg.Extraction.Provider == "openai" && cfg.Extraction.APIKey == "" {
		cfg.Extraction.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Extraction.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading paths from file...\n")
	results, err := processor.ProcessList(ctx, listFile)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Building with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	renderer := pipeline.NewRenderer()
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++

		stem := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
		jsonPath := filepath.Join(batchOutDir, stem+".report.json")
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d nodes, %d edges)\n", result.Path, result.Report.Nodes, result.Report.Edges)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchOutDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d builds failed", failureCount, len(results))
	}
	return nil
}
