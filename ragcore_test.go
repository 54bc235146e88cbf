package ragcore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskyrag/ragcore/internal/config"
	"github.com/huskyrag/ragcore/internal/ragtest"
	"github.com/huskyrag/ragcore/pkg/types"
)

func testConfig() *config.EngineConfig {
	return &config.EngineConfig{
		Embedding: config.EmbeddingConfig{
			Provider:     "openai",
			APIKey:       "test-key",
			Model:        "text-embedding-3-small",
			Timeout:      2 * time.Second,
			CacheTTL:     time.Minute,
			CacheMaxSize: 1024,
		},
		VectorStore: config.VectorStoreConfig{
			BaseURL:             "http://localhost:6333",
			Timeout:             2 * time.Second,
			ShardCacheTTL:       time.Minute,
			UnifiedCollectionID: "unified",
		},
		Retrieval: config.RetrievalConfig{
			MaxWorkersPerQuestion: 10,
			GlobalConcurrencyCap:  64,
		},
		Generation: config.GenerationConfig{
			Provider:           "openai",
			APIKey:             "test-key",
			Model:              "gpt-4o-mini",
			MaxPromptChars:     12000,
			DeadlineMargin:     50 * time.Millisecond,
			MinGenerateTimeout: 500 * time.Millisecond,
		},
		Logging: config.LoggingConfig{Level: "error"},
	}
}

func newTestEngine(t *testing.T, store *ragtest.MockStore, chat *ragtest.MockChatProvider) *Engine {
	t.Helper()
	engine, err := New(testConfig(),
		WithEmbeddingBackend(&ragtest.MockEmbedder{}),
		WithVectorStore(store),
		WithChatProvider(chat),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func makeCandidates(collectionID string, n int) []types.Candidate {
	out := make([]types.Candidate, n)
	for i := range out {
		out[i] = types.Candidate{
			DocID:        fmt.Sprintf("doc-%d", i),
			CollectionID: collectionID,
			Content:      fmt.Sprintf("Graduate admissions deadline is March 1st for program %d.", i),
			Metadata:     map[string]string{"title": "Graduate Admissions"},
			RawDistance:  0.1 + float64(i)*0.01,
		}
	}
	return out
}

// S1: a healthy pipeline produces a non-refusal answer with sources.
func TestAnswer_HappyPath(t *testing.T) {
	store := ragtest.NewMockStore()
	store.PerShard["unified"] = makeCandidates("unified", 5)
	chat := &ragtest.MockChatProvider{Response: "The graduate admissions deadline is March 1st."}

	engine := newTestEngine(t, store, chat)
	q := types.Question{Text: "When is the graduate admissions deadline?", Mode: types.Fast, Deadline: time.Now().Add(3 * time.Second)}

	env, err := engine.Answer(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, env.Answer, "March 1st")
	assert.NotEmpty(t, env.Sources)
	assert.False(t, env.DeadlineExceeded)
	assert.Greater(t, env.Confidence, 0.0)
}

// S: an empty corpus produces a refusal answer rather than an error.
func TestAnswer_NoCandidatesProducesRefusal(t *testing.T) {
	store := ragtest.NewMockStore()
	chat := &ragtest.MockChatProvider{}

	engine := newTestEngine(t, store, chat)
	q := types.Question{Text: "What is the capital of nowhere?", Mode: types.Fast, Deadline: time.Now().Add(3 * time.Second)}

	env, err := engine.Answer(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, env.Answer, "do not contain information")
	assert.Empty(t, env.Sources)
	assert.Empty(t, chat.Requests, "no candidates means the chat provider should never be called")
}

// S: a caller-supplied blank TraceID still gets a usable trace id threaded
// through the pipeline (observability.GenerateRequestID wiring).
func TestAnswer_GeneratesTraceIDWhenMissing(t *testing.T) {
	store := ragtest.NewMockStore()
	store.PerShard["unified"] = makeCandidates("unified", 3)
	chat := &ragtest.MockChatProvider{Response: "An answer."}

	engine := newTestEngine(t, store, chat)
	q := types.Question{Text: "When is the graduate admissions deadline?", Mode: types.Fast, Deadline: time.Now().Add(3 * time.Second)}

	_, err := engine.Answer(context.Background(), q)
	require.NoError(t, err)
}

// Invalid input (too-short question text) is rejected before any upstream
// collaborator is called.
func TestAnswer_RejectsInvalidQuestion(t *testing.T) {
	store := ragtest.NewMockStore()
	chat := &ragtest.MockChatProvider{}
	engine := newTestEngine(t, store, chat)

	_, err := engine.Answer(context.Background(), types.Question{Text: "", Mode: types.Fast, Deadline: time.Now().Add(time.Second)})
	require.Error(t, err)
	assert.Empty(t, chat.Requests)
}

// A LLM error on both the initial call and the retry degrades to a
// refusal envelope rather than surfacing an error to the caller. The
// deadline was not actually exceeded here, so DeadlineExceeded must stay
// false: this is an upstream outage, not a timeout.
func TestAnswer_LLMFailureDegradesToRefusal(t *testing.T) {
	store := ragtest.NewMockStore()
	store.PerShard["unified"] = makeCandidates("unified", 3)
	chat := &ragtest.MockChatProvider{Err: assertionError("upstream exploded")}

	engine := newTestEngine(t, store, chat)
	q := types.Question{Text: "When is the graduate admissions deadline?", Mode: types.Fast, Deadline: time.Now().Add(3 * time.Second)}

	env, err := engine.Answer(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, env.Answer, "do not contain information")
	assert.False(t, env.DeadlineExceeded)
}

// When the same LLM failure happens with an already-expired deadline, the
// refusal envelope does report DeadlineExceeded.
func TestAnswer_LLMFailureWithExpiredDeadlineMarksDeadlineExceeded(t *testing.T) {
	store := ragtest.NewMockStore()
	store.PerShard["unified"] = makeCandidates("unified", 3)
	chat := &ragtest.MockChatProvider{Err: assertionError("upstream exploded")}

	engine := newTestEngine(t, store, chat)
	q := types.Question{Text: "When is the graduate admissions deadline?", Mode: types.Fast, Deadline: time.Now().Add(-time.Second)}

	env, err := engine.Answer(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, env.Answer, "do not contain information")
	assert.True(t, env.DeadlineExceeded)
}

// Healthcheck reflects vector store reachability.
func TestHealthcheck_FailsWhenStoreUnreachable(t *testing.T) {
	store := ragtest.NewMockStore()
	store.ShardsErr = assertionError("dns failure")
	chat := &ragtest.MockChatProvider{}

	engine := newTestEngine(t, store, chat)
	err := engine.Healthcheck(context.Background())
	require.Error(t, err)
}

type assertionError string

func (e assertionError) Error() string { return string(e) }
