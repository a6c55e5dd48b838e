package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mberjans/iffc-chatbot-jules/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	fetchOutDir  string
	fetchTimeout time.Duration
	fetchBuild   bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <pmid> [pmid...]",
	Short: "Download PubMed article XML from NCBI",
	Long: `Fetch retrieves full PubMed records by PMID through the NCBI
E-utilities efetch endpoint and saves each one as pubmed_<pmid>.xml.

Requests are rate limited per host (NCBI allows 3 requests per second
without an API key) and honor robots.txt.

Example:
  kgraph fetch 31345061
  kgraph fetch 31345061 28495875 --out-dir ./articles
  kgraph fetch 31345061 --build`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOutDir, "out-dir", ".", "output directory for downloaded XML")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 5*time.Minute, "overall fetch timeout")
	fetchCmd.Flags().BoolVar(&fetchBuild, "build", false, "build a graph from each downloaded article")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(fetchOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	downloader := pipeline.NewDownloader(cfg.HTTP)

	var downloaded []string
	for _, pmid := range args {
		path := filepath.Join(fetchOutDir, "pubmed_"+pmid+".xml")
		if verbose {
			fmt.Fprintf(os.Stderr, "Fetching PMID %s...\n", pmid)
		}
		if err := downloader.FetchPubmedToFile(ctx, pmid, path); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", path)
		downloaded = append(downloaded, path)
	}

	if !fetchBuild {
		return nil
	}

	cfg.Output.Dir = fetchOutDir
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	for _, path := range downloaded {
		report, err := p.BuildFile(ctx, path)
		if err != nil {
			return fmt.Errorf("build %s: %w", path, err)
		}
		if err := p.RenderReport(report, "", "", verbose); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}
	return nil
}
