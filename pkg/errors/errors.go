// Package errors defines the unified error taxonomy for the retrieval and
// query orchestration engine. Every error that can cross a component
// boundary is mapped onto one of the Kinds below; callers at the edge
// switch on Kind rather than on error strings.
package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies a RagError. The set mirrors the propagation policy: some
// kinds are always surfaced to the caller, others are absorbed internally
// and only ever show up in logs or in AnswerEnvelope.DeadlineExceeded.
type Kind string

const (
	// KindInvalidInput means the question failed validation (length, etc).
	// Always surfaced; maps to 4xx at any HTTP edge.
	KindInvalidInput Kind = "invalid_input"

	// KindEmbeddingUnavailable means C1 could not produce a vector for the
	// question within its retry budget. Always surfaced.
	KindEmbeddingUnavailable Kind = "embedding_unavailable"

	// KindVectorStoreUnavailable means the store is down at the level of
	// shard discovery itself (no cached shard list to fall back on), or a
	// global failure (auth, DNS). Always surfaced.
	KindVectorStoreUnavailable Kind = "vector_store_unavailable"

	// KindLLMUnavailable means C5's chat call failed or timed out with no
	// retry budget remaining. C5 absorbs it into a refusal answer with
	// fixed low confidence, so Engine.Answer does not return it.
	KindLLMUnavailable Kind = "llm_unavailable"

	// KindPartialShardFailure marks a single shard query failure absorbed
	// during fan-out. Never surfaced to a caller; logged and counted.
	KindPartialShardFailure Kind = "partial_shard_failure"

	// KindDeadlineExceeded marks a request that ran past its budget. Never
	// raised as an error; reflected via AnswerEnvelope.DeadlineExceeded.
	KindDeadlineExceeded Kind = "deadline_exceeded"
)

// RagError is the standard error type returned across component
// boundaries. It always carries a trace id so a caller can correlate a
// failure with logs without leaking upstream details (hosts, credentials)
// in the message text.
type RagError struct {
	Kind      Kind
	Message   string
	TraceID   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *RagError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("[%s] %s (trace=%s)", e.Kind, e.Message, e.TraceID)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *RagError) Unwrap() error {
	return e.Cause
}

// HTTPStatusCode maps Kind to the status code a collaborating HTTP edge
// (out of this engine's scope, see spec §1) would want to return.
func (e *RagError) HTTPStatusCode() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindEmbeddingUnavailable, KindVectorStoreUnavailable, KindLLMUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New constructs a RagError of the given kind.
func New(kind Kind, traceID, message string) *RagError {
	return &RagError{Kind: kind, TraceID: traceID, Message: message, Retryable: isRetryable(kind)}
}

// Wrap constructs a RagError of the given kind around a cause, preserving
// it for errors.Unwrap.
func Wrap(kind Kind, traceID, message string, cause error) *RagError {
	return &RagError{Kind: kind, TraceID: traceID, Message: message, Cause: cause, Retryable: isRetryable(kind)}
}

func isRetryable(k Kind) bool {
	switch k {
	case KindEmbeddingUnavailable, KindLLMUnavailable, KindPartialShardFailure:
		return true
	default:
		return false
	}
}

// IsKind reports whether err is a *RagError of the given kind.
func IsKind(err error, kind Kind) bool {
	re, ok := err.(*RagError)
	return ok && re.Kind == kind
}
