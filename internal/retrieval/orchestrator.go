// Package retrieval implements C3, the retrieval orchestrator: given a
// question and its embedding, it dispatches either a single unified-path
// query or a deadline-bounded, concurrent shard fan-out, merges results
// into a bounded top-K, and reports whether the deadline was what ended
// the search.
package retrieval

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/huskyrag/ragcore/internal/resilience"
	"github.com/huskyrag/ragcore/pkg/types"
)

// StoreClient is the C2 contract C3 depends on. vectorstore.Client
// satisfies it structurally.
type StoreClient interface {
	QueryCollection(ctx context.Context, collectionID string, vector []float32, k int, timeout time.Duration) ([]types.Candidate, error)
	ListShards(ctx context.Context, traceID string, forceRefresh bool) ([]types.Shard, error)
}

// Orchestrator is C3.
type Orchestrator struct {
	store               StoreClient
	maxWorkersPerQuery  int
	unifiedCollectionID string
	tracer              trace.Tracer
	globalSem           *resilience.Semaphore
}

// New constructs an Orchestrator. unifiedCollectionID selects the
// unified dispatch path when non-empty (spec §4.3); maxWorkersPerQuery
// bounds per-question fan-out concurrency before the mode-independent
// `min(_, 10)` cap spec §4.3 also requires. globalConcurrencyCap bounds
// concurrent shard queries across every in-flight question, not just
// one; pass 0 to leave it unbounded.
func New(store StoreClient, maxWorkersPerQuery int, unifiedCollectionID string, tracer trace.Tracer, globalConcurrencyCap int) *Orchestrator {
	o := &Orchestrator{
		store:               store,
		maxWorkersPerQuery:  maxWorkersPerQuery,
		unifiedCollectionID: unifiedCollectionID,
		tracer:              tracer,
	}
	if globalConcurrencyCap > 0 {
		o.globalSem = resilience.NewSemaphore(globalConcurrencyCap)
	}
	return o
}

// Result is C3's output: the merged candidate list plus whether the
// question's deadline (rather than early-stop or exhaustion) is what
// ended the search.
type Result struct {
	Candidates       []types.Candidate
	DeadlineExceeded bool
}

// Retrieve runs the fan-out (or unified query) for one question. It
// never returns an error for partial shard failure - per spec §4.3 and
// §7, that is absorbed and shows only as a possibly-smaller candidate set;
// Result.DeadlineExceeded reports only whether the question's deadline
// cut the search short. It returns an error only when the
// shard list cannot be obtained at all (VectorStoreUnavailable).
func (o *Orchestrator) Retrieve(ctx context.Context, question types.Question, vector []float32) (Result, error) {
	params := paramsFor(question.Mode)

	if o.unifiedCollectionID != "" {
		return o.retrieveUnified(ctx, question, vector, params)
	}
	return o.retrieveSharded(ctx, question, vector, params)
}

func (o *Orchestrator) retrieveUnified(ctx context.Context, question types.Question, vector []float32, params modeParams) (Result, error) {
	timeout := time.Until(question.Deadline)
	if timeout <= 0 {
		timeout = params.Budget
	}

	candidates, _ := o.store.QueryCollection(ctx, o.unifiedCollectionID, vector, params.FinalTopK, timeout)
	return Result{Candidates: candidates, DeadlineExceeded: question.Expired(time.Now())}, nil
}

func (o *Orchestrator) retrieveSharded(ctx context.Context, question types.Question, vector []float32, params modeParams) (Result, error) {
	shards, err := o.store.ListShards(ctx, question.TraceID, false)
	if err != nil {
		return Result{}, err
	}

	selected := selectShards(shards, params.ShardCap)

	workers := o.maxWorkersPerQuery
	if workers > 10 {
		workers = 10
	}
	if workers > len(selected) {
		workers = len(selected)
	}
	if workers <= 0 {
		workers = 1
	}

	deadlineCtx, cancel := context.WithDeadline(ctx, question.Deadline)
	defer cancel()

	merge := newMergeHeap(params.FinalTopK)
	deadlineExceeded := fanOut(deadlineCtx, cancel, o.store, merge, selected, vector, params, workers, o.tracer, o.globalSem)

	return Result{Candidates: merge.Drain(), DeadlineExceeded: deadlineExceeded}, nil
}
