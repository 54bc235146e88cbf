// Package generate implements C5: deadline-aware prompt assembly, a
// single bounded LLM call with one conditional retry, and post-processing
// into an AnswerEnvelope.
package generate

import (
	"context"
	"time"

	"github.com/huskyrag/ragcore/internal/generate/llm"
	"github.com/huskyrag/ragcore/internal/metrics"
	"github.com/huskyrag/ragcore/internal/observability"
	"github.com/huskyrag/ragcore/internal/resilience"
	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
	"github.com/huskyrag/ragcore/pkg/types"
)

// temperature is the sampling temperature recorded for C5. llm.ChatProvider
// carries no temperature argument, so this value is not sent to any
// provider; chat requests use the provider's default temperature.
const temperature = 0.2

// retryMinRemaining is the minimum deadline slack required before C5 will
// retry a failed call, per spec §4.5.
const retryMinRemaining = 1 * time.Second

// Generator is C5.
type Generator struct {
	provider       llm.ChatProvider
	model          string
	maxPromptChars int
	deadlineMargin time.Duration
	minTimeout     time.Duration
	log            *observability.Logger
	throttle       *resilience.Throttle
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger attaches a logger.
func WithLogger(l *observability.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithThrottle rate-limits outbound chat-provider calls against the
// engine-wide upstream request budget. Nil (the default) leaves calls
// unthrottled.
func WithThrottle(t *resilience.Throttle) Option {
	return func(g *Generator) { g.throttle = t }
}

// New builds a Generator backed by provider. maxPromptChars, deadlineMargin,
// and minTimeout come from GenerationConfig.
func New(provider llm.ChatProvider, model string, maxPromptChars int, deadlineMargin, minTimeout time.Duration, opts ...Option) *Generator {
	g := &Generator{
		provider:       provider,
		model:          model,
		maxPromptChars: maxPromptChars,
		deadlineMargin: deadlineMargin,
		minTimeout:     minTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is C5's output before envelope assembly: the generated (or
// refusal) answer, its confidence, whether the deadline was exceeded, and
// the sources actually used, in prompt order.
type Result struct {
	Answer           string
	Confidence       float64
	DeadlineExceeded bool
	Sources          []types.Source
}

// Generate assembles the prompt from ranked (already C4-scored)
// candidates, calls the chat provider with a deadline-bounded timeout and
// at most one retry, and post-processes the result.
func (g *Generator) Generate(ctx context.Context, question types.Question, ranked []types.Candidate) (Result, error) {
	if len(ranked) == 0 {
		return Result{
			Answer:           "The provided sources do not contain information to answer this question.",
			Confidence:       refusalConfidence,
			DeadlineExceeded: question.Expired(time.Now()),
		}, nil
	}

	prompt, entries := assemblePrompt(question.Text, ranked, question.Mode, g.maxPromptChars)
	params := promptParamsFor(question.Mode)

	timeout := computeTimeout(question.Deadline, g.deadlineMargin, g.minTimeout)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := g.callWithRetry(callCtx, question.TraceID, prompt, params.MaxTokens, timeout)
	deadlineExceeded := question.Expired(time.Now())
	if err != nil {
		if !ragerrors.IsKind(err, ragerrors.KindLLMUnavailable) {
			return Result{}, err
		}
		return Result{
			Answer:           "The provided sources do not contain information to answer this question.",
			Confidence:       refusalConfidence,
			DeadlineExceeded: question.Expired(time.Now()),
			Sources:          sourcesFrom(entries),
		}, nil
	}

	answer := stripRefusalPreamble(raw)
	relevances := make([]float64, len(entries))
	for i, e := range entries {
		relevances[i] = e.candidate.Relevance
	}

	return Result{
		Answer:           answer,
		Confidence:       confidence(answer, relevances),
		DeadlineExceeded: deadlineExceeded,
		Sources:          sourcesFrom(entries),
	}, nil
}

func (g *Generator) callWithRetry(ctx context.Context, traceID, prompt string, maxTokens int, timeout time.Duration) (string, error) {
	if g.throttle != nil {
		if err := g.throttle.Wait(ctx); err != nil {
			return "", wrapLLMError(traceID, err)
		}
	}

	out, err := g.provider.Chat(ctx, traceID, g.model, SystemInstruction, prompt, maxTokens)
	if err == nil {
		metrics.LLMCallsTotal.WithLabelValues(g.provider.Name(), "ok").Inc()
		return out, nil
	}

	re, ok := err.(*ragerrors.RagError)
	if !ok || !re.Retryable || timeRemaining(ctx) < retryMinRemaining {
		metrics.LLMCallsTotal.WithLabelValues(g.provider.Name(), "error").Inc()
		return "", wrapLLMError(traceID, err)
	}

	out, err = g.provider.Chat(ctx, traceID, g.model, SystemInstruction, prompt, maxTokens)
	if err != nil {
		metrics.LLMCallsTotal.WithLabelValues(g.provider.Name(), "error").Inc()
		return "", wrapLLMError(traceID, err)
	}
	metrics.LLMCallsTotal.WithLabelValues(g.provider.Name(), "retried_ok").Inc()
	return out, nil
}

func wrapLLMError(traceID string, err error) error {
	if ragerrors.IsKind(err, ragerrors.KindLLMUnavailable) {
		return err
	}
	return ragerrors.Wrap(ragerrors.KindLLMUnavailable, traceID, "answer generation failed", err)
}

func timeRemaining(ctx context.Context) time.Duration {
	d, ok := ctx.Deadline()
	if !ok {
		return retryMinRemaining
	}
	return time.Until(d)
}

// computeTimeout implements spec §4.5's request timeout rule: remaining
// deadline minus the safety margin, floored at minTimeout.
func computeTimeout(deadline time.Time, margin, minTimeout time.Duration) time.Duration {
	remaining := time.Until(deadline) - margin
	if remaining < minTimeout {
		return minTimeout
	}
	return remaining
}

func sourcesFrom(entries []contextEntry) []types.Source {
	n := len(entries)
	if n > types.MaxSources {
		n = types.MaxSources
	}
	sources := make([]types.Source, n)
	for i := 0; i < n; i++ {
		c := entries[i].candidate
		sources[i] = types.Source{
			Title:      c.Title,
			URL:        c.URL,
			Similarity: c.Similarity,
			Excerpt:    truncate(c.Content, types.MaxExcerptLen),
		}
	}
	return sources
}
