package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/huskyrag/ragcore/internal/cache"
	"github.com/huskyrag/ragcore/internal/metrics"
	"github.com/huskyrag/ragcore/internal/observability"
	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
)

// retryBackoff is the fixed delay between the initial attempt and the
// single retry, per spec §4.1.
const retryBackoff = 250 * time.Millisecond

// callTimeout bounds a single upstream embedding call, per spec §4.1.
const callTimeout = 1500 * time.Millisecond

// Gateway is C1: it normalizes and caches embedding lookups in front of
// an upstream Backend, enforcing the call timeout and single-retry
// discipline spec.md §4.1 requires.
type Gateway struct {
	backend Backend
	model   string
	cache   *vectorCache
	log     *observability.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTier2Cache attaches an optional Redis-backed second cache tier.
func WithTier2Cache(c cache.Cache) Option {
	return func(g *Gateway) { g.cache.tier2 = c }
}

// WithLogger attaches a logger. New sets no default logger.
func WithLogger(l *observability.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// New builds a Gateway backed by backend, using model as the embedding
// model identifier, ttl as the in-process cache's entry lifetime, and
// maxSize as its entry bound (a non-positive value falls back to
// defaultCacheMaxSize).
func New(backend Backend, model string, ttl time.Duration, maxSize int, opts ...Option) *Gateway {
	g := &Gateway{
		backend: backend,
		model:   model,
		cache:   newVectorCache(ttl, maxSize, nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Embed normalizes text, serves it from cache on a hit, and otherwise
// calls the upstream backend with a bounded timeout and a single retry on
// transient error. The text sent upstream is the question text trimmed of
// surrounding whitespace; only the cache key is further normalized.
func (g *Gateway) Embed(ctx context.Context, traceID, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)

	if vec, hit := g.cache.get(ctx, trimmed); hit {
		metrics.EmbeddingCacheResults.WithLabelValues("hit").Inc()
		return vec, nil
	}
	metrics.EmbeddingCacheResults.WithLabelValues("miss").Inc()

	vec, err := g.callWithRetry(ctx, traceID, trimmed)
	if err != nil {
		return nil, err
	}

	g.cache.put(ctx, trimmed, vec, 0)
	return vec, nil
}

func (g *Gateway) callWithRetry(ctx context.Context, traceID, text string) ([]float32, error) {
	vec, err := g.callOnce(ctx, traceID, text)
	if err == nil {
		return vec, nil
	}

	re, ok := err.(*ragerrors.RagError)
	if !ok || !re.Retryable {
		return nil, err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ragerrors.Wrap(ragerrors.KindEmbeddingUnavailable, traceID, "embedding request cancelled before retry", ctx.Err())
	}

	return g.callOnce(ctx, traceID, text)
}

func (g *Gateway) callOnce(ctx context.Context, traceID, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	return g.backend.Embed(callCtx, traceID, g.model, text)
}
