// Package ragtest provides configurable in-process test doubles for the
// engine's three external collaborators (embedding backend, vector store,
// chat provider), grounded on the teacher's queued-response mock server
// pattern (tests/testutil/mock_llm.go) but adapted to the in-process Go
// interfaces C1/C2/C5 depend on here, since this engine has no HTTP
// surface of its own to mock against.
package ragtest

import (
	"context"
	"sync"
	"time"

	"github.com/huskyrag/ragcore/pkg/types"
)

// MockEmbedder is a configurable embedding.Backend double.
type MockEmbedder struct {
	mu       sync.Mutex
	Vector   []float32
	Err      error
	Delay    time.Duration
	Requests []string
}

func (m *MockEmbedder) Embed(ctx context.Context, traceID, model, text string) ([]float32, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, text)
	delay, err, vec := m.Delay, m.Err, m.Vector
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if vec == nil {
		vec = []float32{0.1, 0.2, 0.3}
	}
	return vec, nil
}

// MockStore is a configurable vectorstore.Store double: per-collection
// results/errors/delays, and a fixed collection list.
type MockStore struct {
	mu           sync.Mutex
	Shards       []types.Shard
	ShardsErr    error
	PerShard     map[string][]types.Candidate
	PerShardErr  map[string]error
	PerShardWait map[string]time.Duration
	Queried      []string
}

func NewMockStore() *MockStore {
	return &MockStore{
		PerShard:     make(map[string][]types.Candidate),
		PerShardErr:  make(map[string]error),
		PerShardWait: make(map[string]time.Duration),
	}
}

func (m *MockStore) QueryCollection(ctx context.Context, collectionID string, vector []float32, k int, timeout time.Duration) ([]types.Candidate, error) {
	m.mu.Lock()
	m.Queried = append(m.Queried, collectionID)
	wait, hasWait := m.PerShardWait[collectionID]
	err, hasErr := m.PerShardErr[collectionID]
	results := m.PerShard[collectionID]
	m.mu.Unlock()

	if hasWait {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if hasErr {
		return nil, err
	}
	return results, nil
}

func (m *MockStore) ListCollections(ctx context.Context) ([]types.Shard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShardsErr != nil {
		return nil, m.ShardsErr
	}
	return m.Shards, nil
}

// MockChatProvider is a configurable llm.ChatProvider double.
type MockChatProvider struct {
	mu       sync.Mutex
	Response string
	Err      error
	FailOnce bool
	failed   bool
	Requests []string
}

func (m *MockChatProvider) Chat(ctx context.Context, traceID, model, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, userPrompt)

	if m.FailOnce && !m.failed {
		m.failed = true
		return "", m.Err
	}
	if m.Err != nil && !m.FailOnce {
		return "", m.Err
	}
	if m.Response == "" {
		return "This is a mock generated answer.", nil
	}
	return m.Response, nil
}

func (m *MockChatProvider) Name() string { return "mock" }
