// Package config provides environment-variable configuration loading for
// the retrieval engine. Unlike a multi-tenant gateway, this engine has no
// file-based config to hot-reload: values are read from the environment
// at startup and re-read only on an explicit Manager.Reload, so a
// misconfigured deployment fails fast instead of serving traffic against
// a broken embedder or vector store.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EngineConfig is the complete configuration for one Engine instance.
type EngineConfig struct {
	Embedding   EmbeddingConfig
	VectorStore VectorStoreConfig
	Retrieval   RetrievalConfig
	Generation  GenerationConfig
	Cache       CacheConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
	Tracing     TracingConfig
}

// EmbeddingConfig configures C1, the embedding gateway.
type EmbeddingConfig struct {
	Provider     string // "openai" or "azure"
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheMaxSize int
}

// VectorStoreConfig configures C2, the vector store client.
type VectorStoreConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	ShardCacheTTL time.Duration
	// UnifiedCollectionID, when non-empty, selects the unified dispatch
	// path: C3 queries this single collection instead of fanning out
	// across shards (spec §4.3).
	UnifiedCollectionID string
}

// RetrievalConfig configures C3, the shard fan-out orchestrator.
type RetrievalConfig struct {
	// MaxWorkersPerQuestion bounds concurrent shard queries for a single
	// question: W = min(MaxWorkersPerQuestion, 10, shards selected).
	MaxWorkersPerQuestion int
	// GlobalConcurrencyCap bounds concurrent shard queries across every
	// in-flight question.
	GlobalConcurrencyCap int
}

// GenerationConfig configures C5, the answer generator.
type GenerationConfig struct {
	Provider           string // "openai" or "anthropic"
	APIKey             string
	Model              string
	MaxPromptChars     int
	DeadlineMargin     time.Duration
	MinGenerateTimeout time.Duration
}

// CacheConfig configures the optional Redis second tier backing C1's
// embedding cache. C2's shard-list cache is in-process only.
type CacheConfig struct {
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	JSONFormat bool
}

// MetricsConfig controls Prometheus metric registration.
type MetricsConfig struct {
	Enabled bool
}

// TracingConfig controls OpenTelemetry span emission.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRate  float64
}

// Load reads configuration from the environment (and an optional .env
// file in the working directory), applies defaults for everything that
// has a sane one, and fails on anything required that is missing.
func Load() (*EngineConfig, error) {
	_ = godotenv.Load()

	cfg := &EngineConfig{
		Embedding: EmbeddingConfig{
			Provider:     getEnv("RAGCORE_EMBEDDING_PROVIDER", "openai"),
			APIKey:       os.Getenv("RAGCORE_EMBEDDING_API_KEY"),
			BaseURL:      os.Getenv("RAGCORE_EMBEDDING_BASE_URL"),
			Model:        getEnv("RAGCORE_EMBEDDING_MODEL", "text-embedding-3-small"),
			Timeout:      getEnvDuration("RAGCORE_EMBEDDING_TIMEOUT", 10*time.Second),
			CacheTTL:     getEnvDuration("RAGCORE_EMBEDDING_CACHE_TTL", 30*time.Minute),
			CacheMaxSize: getEnvInt("RAGCORE_EMBEDDING_CACHE_MAX_SIZE", 10000),
		},
		VectorStore: VectorStoreConfig{
			BaseURL:             os.Getenv("RAGCORE_VECTORSTORE_BASE_URL"),
			APIKey:              os.Getenv("RAGCORE_VECTORSTORE_API_KEY"),
			Timeout:             getEnvDuration("RAGCORE_VECTORSTORE_TIMEOUT", 5*time.Second),
			ShardCacheTTL:       getEnvDuration("RAGCORE_SHARD_CACHE_TTL", 60*time.Minute),
			UnifiedCollectionID: os.Getenv("RAGCORE_UNIFIED_COLLECTION_ID"),
		},
		Retrieval: RetrievalConfig{
			MaxWorkersPerQuestion: getEnvInt("RAGCORE_MAX_WORKERS_PER_QUESTION", 10),
			GlobalConcurrencyCap:  getEnvInt("RAGCORE_GLOBAL_CONCURRENCY_CAP", 64),
		},
		Generation: GenerationConfig{
			Provider:           getEnv("RAGCORE_GENERATION_PROVIDER", "openai"),
			APIKey:             os.Getenv("RAGCORE_GENERATION_API_KEY"),
			Model:              getEnv("RAGCORE_GENERATION_MODEL", "gpt-4o-mini"),
			MaxPromptChars:     getEnvInt("RAGCORE_MAX_PROMPT_CHARS", 12000),
			DeadlineMargin:     getEnvDuration("RAGCORE_GENERATION_DEADLINE_MARGIN", 200*time.Millisecond),
			MinGenerateTimeout: getEnvDuration("RAGCORE_MIN_GENERATE_TIMEOUT", 1500*time.Millisecond),
		},
		Cache: CacheConfig{
			RedisEnabled:  getEnvBool("RAGCORE_REDIS_ENABLED", false),
			RedisAddr:     getEnv("RAGCORE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("RAGCORE_REDIS_PASSWORD"),
			RedisDB:       getEnvInt("RAGCORE_REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:      getEnv("RAGCORE_LOG_LEVEL", "info"),
			JSONFormat: getEnvBool("RAGCORE_LOG_JSON", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("RAGCORE_METRICS_ENABLED", true),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("RAGCORE_TRACING_ENABLED", false),
			ServiceName: getEnv("RAGCORE_TRACING_SERVICE_NAME", "ragcore"),
			SampleRate:  getEnvFloat("RAGCORE_TRACING_SAMPLE_RATE", 1.0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for missing required values and
// out-of-range settings. It is called once, at startup, by Load -
// nothing in this engine re-validates configuration mid-request.
func (c *EngineConfig) Validate() error {
	switch c.Embedding.Provider {
	case "openai", "azure":
	default:
		return fmt.Errorf("embedding.provider must be one of: openai, azure (got %q)", c.Embedding.Provider)
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("RAGCORE_EMBEDDING_API_KEY is required")
	}
	if c.Embedding.Provider == "azure" && c.Embedding.BaseURL == "" {
		return fmt.Errorf("RAGCORE_EMBEDDING_BASE_URL is required for the azure embedding provider")
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding.timeout must be positive")
	}
	if c.Embedding.CacheMaxSize <= 0 {
		return fmt.Errorf("embedding.cache_max_size must be positive")
	}

	if c.VectorStore.BaseURL == "" {
		return fmt.Errorf("RAGCORE_VECTORSTORE_BASE_URL is required")
	}
	if c.VectorStore.Timeout <= 0 {
		return fmt.Errorf("vectorstore.timeout must be positive")
	}
	if c.VectorStore.ShardCacheTTL <= 0 {
		return fmt.Errorf("vectorstore.shard_cache_ttl must be positive")
	}

	if c.Retrieval.MaxWorkersPerQuestion <= 0 {
		return fmt.Errorf("retrieval.max_workers_per_question must be positive")
	}
	if c.Retrieval.GlobalConcurrencyCap <= 0 {
		return fmt.Errorf("retrieval.global_concurrency_cap must be positive")
	}
	if c.Retrieval.GlobalConcurrencyCap < c.Retrieval.MaxWorkersPerQuestion {
		return fmt.Errorf("retrieval.global_concurrency_cap cannot be smaller than max_workers_per_question")
	}

	switch c.Generation.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("generation.provider must be one of: openai, anthropic (got %q)", c.Generation.Provider)
	}
	if c.Generation.APIKey == "" {
		return fmt.Errorf("RAGCORE_GENERATION_API_KEY is required")
	}
	if c.Generation.MaxPromptChars <= 0 {
		return fmt.Errorf("generation.max_prompt_chars must be positive")
	}
	if c.Generation.MinGenerateTimeout <= 0 {
		return fmt.Errorf("generation.min_generate_timeout must be positive")
	}
	if c.Generation.DeadlineMargin < 0 {
		return fmt.Errorf("generation.deadline_margin cannot be negative")
	}

	if c.Cache.RedisEnabled && c.Cache.RedisAddr == "" {
		return fmt.Errorf("RAGCORE_REDIS_ADDR is required when redis is enabled")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", c.Logging.Level)
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
