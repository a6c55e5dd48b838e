package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mberjans/iffc-chatbot-jules/internal/pipeline"
)

// Builder builds the graph artifacts for one XML file.
type Builder interface {
	BuildFile(ctx context.Context, path string) (*pipeline.Report, error)
}

// BuildJob is one file build.
type BuildJob struct {
	Path    string
	Builder Builder
}

// Execute runs the build for the job's file.
func (j *BuildJob) Execute(ctx context.Context) Result {
	report, err := j.Builder.BuildFile(ctx, j.Path)
	return &BuildResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// BuildResult is the outcome of one file build.
type BuildResult struct {
	Path   string
	Report *pipeline.Report
	Error  error
}

// GetError returns the build error, if any.
func (r *BuildResult) GetError() error {
	return r.Error
}

// BatchProcessor builds many files concurrently. Each file gets its own
// document set, chunker run, and graph, so builds never share state.
type BatchProcessor struct {
	builder     Builder
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given concurrency.
func NewBatchProcessor(builder Builder, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		builder:     builder,
		concurrency: concurrency,
	}
}

// ProcessFiles builds every path concurrently and returns one result per
// path. Result order follows completion, not submission.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*BuildResult {
	if len(paths) == 0 {
		return []*BuildResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&BuildJob{
			Path:    path,
			Builder: b.builder,
		})
	}

	results := pool.Wait()

	buildResults := make([]*BuildResult, len(results))
	for i, r := range results {
		buildResults[i] = r.(*BuildResult)
	}
	return buildResults
}

// ProcessList reads file paths from a list file and builds them all.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*BuildResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads file paths from a list file, one per line. Blank
// lines and # comments are skipped, duplicates dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}
