package model

import (
	"fmt"
	"time"
)

// Config is the complete pipeline configuration. It is built once at process
// start (defaults, then config file, then env, then flags) and passed down as
// an immutable value; nothing in the core reads process-wide state.
type Config struct {
	Chunking   ChunkingConfig   `yaml:"chunking" mapstructure:"chunking"`
	Graph      GraphConfig      `yaml:"graph" mapstructure:"graph"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Embedding  EmbeddingConfig  `yaml:"embedding" mapstructure:"embedding"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Workers    WorkerConfig     `yaml:"workers" mapstructure:"workers"`
}

// ChunkingConfig controls the sliding-window chunker
type ChunkingConfig struct {
	Size     int    `yaml:"size" mapstructure:"size"`         // Window width, in Unit
	Overlap  int    `yaml:"overlap" mapstructure:"overlap"`   // Must be < Size
	Unit     string `yaml:"unit" mapstructure:"unit"`         // "chars" or "tokens"
	Encoding string `yaml:"encoding" mapstructure:"encoding"` // tiktoken encoding for token unit
	Policy   string `yaml:"policy" mapstructure:"policy"`     // "concat" or "segment"
}

// GraphConfig controls graph construction
type GraphConfig struct {
	// Directionality decides how bidirectional relation types are
	// materialized: "mirror" emits two directed edges, "undirected" a single
	// edge flagged undirected. Applied uniformly to the whole graph.
	Directionality string `yaml:"directionality" mapstructure:"directionality"`
}

// ExtractionConfig selects and configures the entity extraction capability
type ExtractionConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "", "lexicon", "openai"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// EmbeddingConfig selects and configures the embedding capability
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // "", "mock", "openai"
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
}

// HTTPConfig controls the article downloader
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls the layered response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls artifact placement
type OutputConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	WriteIndex bool   `yaml:"write_index" mapstructure:"write_index"`
	Verbose    bool   `yaml:"verbose" mapstructure:"verbose"`
}

// WorkerConfig controls batch concurrency
type WorkerConfig struct {
	BuildWorkers int `yaml:"build_workers" mapstructure:"build_workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Chunking: ChunkingConfig{
			Size:     512,
			Overlap:  64,
			Unit:     "chars",
			Encoding: "cl100k_base",
			Policy:   "concat",
		},
		Graph: GraphConfig{
			Directionality: "mirror",
		},
		Extraction: ExtractionConfig{
			Provider:  "", // Chunk graph only unless a provider is configured
			Timeout:   30,
			MaxTokens: 1000,
		},
		Embedding: EmbeddingConfig{
			Provider:   "",
			Dimensions: 384,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "kgraph/0.1 (+https://github.com/mberjans/iffc-chatbot-jules)",
			MaxBodyBytes:  5_000_000,
			RatePerSecond: 3, // NCBI allows 3 req/s without an API key
			RateBurst:     3,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:        ".",
			WriteIndex: true,
		},
		Workers: WorkerConfig{
			BuildWorkers: 4,
		},
	}
}

// Validate rejects inconsistent settings before any work starts.
func (c Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must be non-negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap (%d) must be smaller than chunking.size (%d)",
			c.Chunking.Overlap, c.Chunking.Size)
	}
	switch c.Chunking.Unit {
	case "chars", "tokens":
	default:
		return fmt.Errorf("chunking.unit must be \"chars\" or \"tokens\", got %q", c.Chunking.Unit)
	}
	switch c.Chunking.Policy {
	case "concat", "segment":
	default:
		return fmt.Errorf("chunking.policy must be \"concat\" or \"segment\", got %q", c.Chunking.Policy)
	}
	switch c.Graph.Directionality {
	case "mirror", "undirected":
	default:
		return fmt.Errorf("graph.directionality must be \"mirror\" or \"undirected\", got %q",
			c.Graph.Directionality)
	}
	if c.Workers.BuildWorkers <= 0 {
		return fmt.Errorf("workers.build_workers must be positive, got %d", c.Workers.BuildWorkers)
	}
	return nil
}
