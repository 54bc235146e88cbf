package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestRagError_Message(t *testing.T) {
	err := New(KindEmbeddingUnavailable, "trace-1", "embedding provider timed out")
	msg := err.Error()

	for _, want := range []string{"embedding_unavailable", "embedding provider timed out", "trace-1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want substring %q", msg, want)
		}
	}
}

func TestRagError_NoTraceID(t *testing.T) {
	err := New(KindInvalidInput, "", "question too long")
	if strings.Contains(err.Error(), "trace=") {
		t.Errorf("did not expect a trace segment in %q", err.Error())
	}
}

func TestRagError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindEmbeddingUnavailable, http.StatusServiceUnavailable},
		{KindVectorStoreUnavailable, http.StatusServiceUnavailable},
		{KindLLMUnavailable, http.StatusServiceUnavailable},
		{KindDeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := New(tt.kind, "t", "msg")
			if got := err.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRagError_Retryable(t *testing.T) {
	retryableKinds := []Kind{KindEmbeddingUnavailable, KindLLMUnavailable, KindPartialShardFailure}
	for _, k := range retryableKinds {
		if err := New(k, "", ""); !err.Retryable {
			t.Errorf("%s should be retryable", k)
		}
	}

	notRetryable := []Kind{KindInvalidInput, KindVectorStoreUnavailable, KindDeadlineExceeded}
	for _, k := range notRetryable {
		if err := New(k, "", ""); err.Retryable {
			t.Errorf("%s should not be retryable", k)
		}
	}
}

func TestRagError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindVectorStoreUnavailable, "t", "could not reach vector store", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestIsKind(t *testing.T) {
	err := New(KindDeadlineExceeded, "t", "msg")
	if !IsKind(err, KindDeadlineExceeded) {
		t.Error("expected IsKind to match")
	}
	if IsKind(err, KindInvalidInput) {
		t.Error("expected IsKind to not match a different kind")
	}
	if IsKind(errors.New("plain"), KindInvalidInput) {
		t.Error("expected IsKind to return false for a non-RagError")
	}
}
