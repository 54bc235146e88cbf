package embedding

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
)

type fakeBackend struct {
	calls     atomic.Int32
	failTimes int
	vec       []float32
}

func (f *fakeBackend) Embed(ctx context.Context, traceID, model, text string) ([]float32, error) {
	n := f.calls.Add(1)
	if int(n) <= f.failTimes {
		return nil, ragerrors.New(ragerrors.KindEmbeddingUnavailable, traceID, "transient upstream failure")
	}
	return f.vec, nil
}

func TestGateway_Embed_CacheMissThenHit(t *testing.T) {
	backend := &fakeBackend{vec: []float32{0.1, 0.2, 0.3}}
	gw := New(backend, "text-embedding-3-small", time.Minute, 1024)

	vec, err := gw.Embed(context.Background(), "t1", "What undergraduate programs does Northeastern offer?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.EqualValues(t, 1, backend.calls.Load())

	vec2, err := gw.Embed(context.Background(), "t1", "  What undergraduate   programs does Northeastern offer?  ")
	require.NoError(t, err)
	assert.Equal(t, vec, vec2)
	assert.EqualValues(t, 1, backend.calls.Load(), "second call should be served from cache, not hit the backend again")
}

func TestGateway_Embed_RetriesOnceOnTransientFailure(t *testing.T) {
	backend := &fakeBackend{vec: []float32{0.4}, failTimes: 1}
	gw := New(backend, "text-embedding-3-small", time.Minute, 1024)

	vec, err := gw.Embed(context.Background(), "t1", "retry me")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.4}, vec)
	assert.EqualValues(t, 2, backend.calls.Load())
}

func TestGateway_Embed_FailsAfterSecondAttempt(t *testing.T) {
	backend := &fakeBackend{failTimes: 2}
	gw := New(backend, "text-embedding-3-small", time.Minute, 1024)

	_, err := gw.Embed(context.Background(), "t1", "always fails")
	require.Error(t, err)
	assert.True(t, ragerrors.IsKind(err, ragerrors.KindEmbeddingUnavailable))
	assert.EqualValues(t, 2, backend.calls.Load())
}

func TestNormalizeCacheKey(t *testing.T) {
	a := normalizeCacheKey("  Hello   World  ")
	b := normalizeCacheKey("hello world")
	assert.Equal(t, a, b)
}
