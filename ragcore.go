// Package ragcore provides a retrieval-augmented question-answering
// engine over a chunked corpus of Northeastern University web content, as
// a Go library.
//
// Basic usage:
//
//	engine, err := ragcore.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	envelope, err := engine.Answer(ctx, ragcore.Question{
//	    Text:     "When is the graduate admissions deadline?",
//	    TraceID:  "req-123",
//	    Deadline: time.Now().Add(5 * time.Second),
//	    Mode:     ragcore.Fast,
//	})
package ragcore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/huskyrag/ragcore/caches/redis"
	"github.com/huskyrag/ragcore/internal/cache"
	"github.com/huskyrag/ragcore/internal/config"
	"github.com/huskyrag/ragcore/internal/embedding"
	"github.com/huskyrag/ragcore/internal/generate"
	"github.com/huskyrag/ragcore/internal/generate/llm"
	"github.com/huskyrag/ragcore/internal/metrics"
	"github.com/huskyrag/ragcore/internal/observability"
	"github.com/huskyrag/ragcore/internal/rerank"
	"github.com/huskyrag/ragcore/internal/resilience"
	"github.com/huskyrag/ragcore/internal/retrieval"
	"github.com/huskyrag/ragcore/internal/vectorstore"
	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
	"github.com/huskyrag/ragcore/pkg/types"
	"github.com/huskyrag/ragcore/providers/anthropic"
	"github.com/huskyrag/ragcore/providers/azure"
	"github.com/huskyrag/ragcore/providers/openai"
)

// Re-export the core data model for convenience, matching the teacher's
// pattern of aliasing its internal types at the package root.
type (
	Question       = types.Question
	Candidate      = types.Candidate
	Shard          = types.Shard
	AnswerEnvelope = types.AnswerEnvelope
	Source         = types.Source
	Timings        = types.Timings
	Mode           = types.Mode
)

const (
	UltraFast     = types.UltraFast
	Fast          = types.Fast
	Balanced      = types.Balanced
	Comprehensive = types.Comprehensive
)

// embeddingBackend and llm.ChatProvider are the narrow contracts C1 and C5
// hold their upstream collaborators to; they let New wire either built-in
// provider or a caller-supplied test double via WithEmbeddingBackend /
// WithChatProvider.
type embeddingBackend interface {
	Embed(ctx context.Context, traceID, model, text string) ([]float32, error)
}

// Engine wires C1-C5 into a single Question -> AnswerEnvelope pipeline.
type Engine struct {
	cfg          *config.EngineConfig
	embedGateway *embedding.Gateway
	vectorClient *vectorstore.Client
	orchestrator *retrieval.Orchestrator
	rerankLayer  *rerank.Layer
	generator    *generate.Generator
	log          *observability.Logger
	tracing      *observability.TracerProvider
	tier2Cache   cache.Cache
}

// New builds a fully wired Engine from cfg, applying any functional
// options. Defaults to the config's own provider selections, with a Redis
// second-tier cache only when cfg.Cache.RedisEnabled is set; options let
// callers override wiring for tests or alternate deployments.
func New(cfg *config.EngineConfig, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ragcore: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ragcore: invalid config: %w", err)
	}

	built := &buildState{cfg: cfg}
	for _, opt := range opts {
		opt(built)
	}

	if built.log == nil {
		var level slog.Level
		_ = level.UnmarshalText([]byte(cfg.Logging.Level))
		built.log = observability.NewLogger(observability.LoggerConfig{
			Level:      level,
			JSONFormat: cfg.Logging.JSONFormat,
			AddSource:  false,
		})
	}

	if built.tracing == nil {
		tp, err := observability.InitTracing(context.Background(), observability.TracingConfig{
			Enabled:     cfg.Tracing.Enabled,
			ServiceName: cfg.Tracing.ServiceName,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			return nil, fmt.Errorf("ragcore: init tracing: %w", err)
		}
		built.tracing = tp
	}

	if built.tier2Cache == nil && cfg.Cache.RedisEnabled {
		rc, err := redis.New(redis.Config{
			Addr:       cfg.Cache.RedisAddr,
			Password:   cfg.Cache.RedisPassword,
			DB:         cfg.Cache.RedisDB,
			Namespace:  "ragcore",
			DefaultTTL: cfg.Embedding.CacheTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("ragcore: connect redis cache: %w", err)
		}
		built.tier2Cache = rc
	}

	if built.embeddingBackend == nil {
		backend, err := newEmbeddingBackend(cfg.Embedding)
		if err != nil {
			return nil, err
		}
		built.embeddingBackend = backend
	}

	if built.chatProvider == nil {
		provider, err := newChatProvider(cfg.Generation)
		if err != nil {
			return nil, err
		}
		built.chatProvider = provider
	}

	if built.vectorStore == nil {
		built.vectorStore = vectorstore.NewQdrant(vectorstore.Config{
			BaseURL: cfg.VectorStore.BaseURL,
			APIKey:  cfg.VectorStore.APIKey,
			Timeout: cfg.VectorStore.Timeout,
		})
	}

	gatewayOpts := []embedding.Option{embedding.WithLogger(built.log)}
	if built.tier2Cache != nil {
		gatewayOpts = append(gatewayOpts, embedding.WithTier2Cache(built.tier2Cache))
	}
	embedGateway := embedding.New(built.embeddingBackend, cfg.Embedding.Model, cfg.Embedding.CacheTTL, cfg.Embedding.CacheMaxSize, gatewayOpts...)

	// A single engine-wide throttle caps upstream request rate to the
	// vector store and the chat provider; its rate is derived from the
	// same cap that bounds total in-flight shard queries.
	throttle := resilience.NewThrottle(cfg.Retrieval.GlobalConcurrencyCap)

	vectorClient := vectorstore.NewClient(built.vectorStore, cfg.VectorStore.ShardCacheTTL, throttle)

	orchestrator := retrieval.New(
		vectorClient,
		cfg.Retrieval.MaxWorkersPerQuestion,
		cfg.VectorStore.UnifiedCollectionID,
		built.tracing.Tracer(),
		cfg.Retrieval.GlobalConcurrencyCap,
	)

	generator := generate.New(
		built.chatProvider,
		cfg.Generation.Model,
		cfg.Generation.MaxPromptChars,
		cfg.Generation.DeadlineMargin,
		cfg.Generation.MinGenerateTimeout,
		generate.WithLogger(built.log),
		generate.WithThrottle(throttle),
	)

	return &Engine{
		cfg:          cfg,
		embedGateway: embedGateway,
		vectorClient: vectorClient,
		orchestrator: orchestrator,
		rerankLayer:  rerank.New(),
		generator:    generator,
		log:          built.log,
		tracing:      built.tracing,
		tier2Cache:   built.tier2Cache,
	}, nil
}

// NewFromEnv loads configuration from the environment through a
// config.Manager and builds an Engine from it. Unlike New, it keeps the
// Manager around so a caller can later swap in rotated credentials with
// Reload without restarting the process; the Engine itself always reads
// the config snapshot captured at construction time.
func NewFromEnv(opts ...Option) (*Engine, *config.Manager, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, nil, fmt.Errorf("ragcore: load config: %w", err)
	}
	engine, err := New(mgr.Get(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return engine, mgr, nil
}

// newEmbeddingBackend selects C1's upstream per cfg.Provider ("openai" or
// "azure"), per spec §1's "embedding provider" external collaborator.
func newEmbeddingBackend(cfg config.EmbeddingConfig) (embeddingBackend, error) {
	switch cfg.Provider {
	case "azure":
		opts := []azure.Option{azure.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, azure.WithBaseURL(cfg.BaseURL))
		}
		return azure.New(opts...), nil
	case "openai":
		opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...), nil
	default:
		return nil, fmt.Errorf("ragcore: unknown embedding provider %q", cfg.Provider)
	}
}

// newChatProvider selects C5's upstream per cfg.Provider ("openai" or
// "anthropic").
func newChatProvider(cfg config.GenerationConfig) (llm.ChatProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		opts := []anthropic.Option{anthropic.WithAPIKey(cfg.APIKey)}
		return anthropic.New(opts...), nil
	case "openai":
		opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
		return openai.New(opts...), nil
	default:
		return nil, fmt.Errorf("ragcore: unknown generation provider %q", cfg.Provider)
	}
}

// Answer runs the full C1->C5 pipeline for one question. A caller that
// leaves TraceID empty gets one generated for it, so every stage's logs
// and upstream calls still carry a correlatable id.
func (e *Engine) Answer(ctx context.Context, q types.Question) (types.AnswerEnvelope, error) {
	start := time.Now()
	if q.TraceID == "" {
		q.TraceID = observability.GenerateRequestID()
	}
	if q.Mode == "" {
		q.Mode = types.DefaultMode
	}
	log := e.log.WithFields("trace_id", q.TraceID, "mode", string(q.Mode))

	if err := validateQuestion(q); err != nil {
		metrics.QuestionsTotal.WithLabelValues(string(q.Mode), "invalid_input").Inc()
		return types.AnswerEnvelope{}, err
	}

	embedStart := time.Now()
	vector, err := e.embedGateway.Embed(ctx, q.TraceID, q.Text)
	embedMS := time.Since(embedStart).Milliseconds()
	metrics.StageLatency.WithLabelValues("embed", string(q.Mode)).Observe(time.Since(embedStart).Seconds())
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues(string(q.Mode), "embedding_unavailable").Inc()
		return types.AnswerEnvelope{}, err
	}

	searchStart := time.Now()
	retrieveResult, err := e.orchestrator.Retrieve(ctx, q, vector)
	searchMS := time.Since(searchStart).Milliseconds()
	metrics.StageLatency.WithLabelValues("search", string(q.Mode)).Observe(time.Since(searchStart).Seconds())
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues(string(q.Mode), "vectorstore_unavailable").Inc()
		return types.AnswerEnvelope{}, err
	}

	rerankStart := time.Now()
	ranked := e.rerankLayer.Rank(q.Text, retrieveResult.Candidates)
	rerankMS := time.Since(rerankStart).Milliseconds()
	metrics.StageLatency.WithLabelValues("rerank", string(q.Mode)).Observe(time.Since(rerankStart).Seconds())
	metrics.CandidatesAfterFilter.WithLabelValues(string(q.Mode)).Observe(float64(len(ranked)))

	generateStart := time.Now()
	genResult, err := e.generator.Generate(ctx, q, ranked)
	generateMS := time.Since(generateStart).Milliseconds()
	metrics.StageLatency.WithLabelValues("generate", string(q.Mode)).Observe(time.Since(generateStart).Seconds())
	if err != nil {
		metrics.QuestionsTotal.WithLabelValues(string(q.Mode), "llm_unavailable").Inc()
		return types.AnswerEnvelope{}, err
	}

	totalMS := time.Since(start).Milliseconds()
	deadlineExceeded := retrieveResult.DeadlineExceeded || genResult.DeadlineExceeded || q.Expired(time.Now())

	outcome := "ok"
	if deadlineExceeded {
		outcome = "deadline_exceeded"
	}
	metrics.QuestionsTotal.WithLabelValues(string(q.Mode), outcome).Inc()
	metrics.TotalLatency.WithLabelValues(string(q.Mode)).Observe(float64(totalMS) / 1000)

	log.Info("question answered",
		"embed_ms", embedMS, "search_ms", searchMS, "rerank_ms", rerankMS, "generate_ms", generateMS,
		"total_ms", totalMS, "sources", len(genResult.Sources), "deadline_exceeded", deadlineExceeded,
	)

	return types.AnswerEnvelope{
		Answer:           genResult.Answer,
		Sources:          genResult.Sources,
		Confidence:       genResult.Confidence,
		UsedSourcesCount: len(genResult.Sources),
		DeadlineExceeded: deadlineExceeded,
		Timings: types.Timings{
			EmbedMS:    embedMS,
			SearchMS:   searchMS,
			RerankMS:   rerankMS,
			GenerateMS: generateMS,
			TotalMS:    totalMS,
		},
	}, nil
}

func validateQuestion(q types.Question) error {
	if len(q.Text) < types.MinQuestionLen || len(q.Text) > types.MaxQuestionLen {
		return ragerrors.New(ragerrors.KindInvalidInput, q.TraceID, fmt.Sprintf("question text must be between %d and %d characters", types.MinQuestionLen, types.MaxQuestionLen))
	}
	if !q.Mode.Valid() {
		return ragerrors.New(ragerrors.KindInvalidInput, q.TraceID, fmt.Sprintf("unrecognized mode %q", q.Mode))
	}
	return nil
}

// Healthcheck pings the vector store and, if reachable, the optional
// second-tier cache. It does not call the embedding or LLM providers on
// every invocation - those are checked for configuration validity at New
// time instead, since a cheap upstream probe for them does not exist
// uniformly across providers.
func (e *Engine) Healthcheck(ctx context.Context) error {
	if _, err := e.vectorClient.ListShards(ctx, "healthcheck", false); err != nil {
		return fmt.Errorf("ragcore: vector store unhealthy: %w", err)
	}
	if e.tier2Cache != nil {
		if err := e.tier2Cache.Ping(ctx); err != nil {
			return fmt.Errorf("ragcore: cache tier unhealthy: %w", err)
		}
	}
	return nil
}

// Close releases resources held by the Engine (tracer provider, optional
// Redis connection).
func (e *Engine) Close() error {
	if e.tier2Cache != nil {
		if err := e.tier2Cache.Close(); err != nil {
			return err
		}
	}
	return e.tracing.Shutdown(context.Background())
}
