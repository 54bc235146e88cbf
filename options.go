package ragcore

import (
	"github.com/huskyrag/ragcore/internal/cache"
	"github.com/huskyrag/ragcore/internal/config"
	"github.com/huskyrag/ragcore/internal/generate/llm"
	"github.com/huskyrag/ragcore/internal/observability"
	"github.com/huskyrag/ragcore/internal/vectorstore"
)

// buildState accumulates New's functional options before the Engine's
// fixed wiring order runs; any field left nil is filled from cfg.
type buildState struct {
	cfg *config.EngineConfig

	log              *observability.Logger
	tracing          *observability.TracerProvider
	tier2Cache       cache.Cache
	embeddingBackend embeddingBackend
	chatProvider     llm.ChatProvider
	vectorStore      vectorstore.Store
}

// Option configures an Engine at construction time.
type Option func(*buildState)

// WithLogger overrides the default slog-backed logger.
func WithLogger(l *observability.Logger) Option {
	return func(b *buildState) { b.log = l }
}

// WithTracingProvider overrides tracing initialization, e.g. to share a
// tracer provider already set up by a host application.
func WithTracingProvider(tp *observability.TracerProvider) Option {
	return func(b *buildState) { b.tracing = tp }
}

// WithTier2Cache attaches a second-tier cache (normally Redis), bypassing
// cfg.Cache entirely - useful for tests with an in-process double.
func WithTier2Cache(c cache.Cache) Option {
	return func(b *buildState) { b.tier2Cache = c }
}

// WithEmbeddingBackend overrides C1's upstream, bypassing
// cfg.Embedding.Provider selection. Intended for tests.
func WithEmbeddingBackend(backend embeddingBackend) Option {
	return func(b *buildState) { b.embeddingBackend = backend }
}

// WithChatProvider overrides C5's upstream, bypassing
// cfg.Generation.Provider selection. Intended for tests.
func WithChatProvider(provider llm.ChatProvider) Option {
	return func(b *buildState) { b.chatProvider = provider }
}

// WithVectorStore overrides C2's backend, bypassing the built-in Qdrant
// wiring. Intended for tests.
func WithVectorStore(store vectorstore.Store) Option {
	return func(b *buildState) { b.vectorStore = store }
}
