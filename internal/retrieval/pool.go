package retrieval

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/huskyrag/ragcore/internal/metrics"
	"github.com/huskyrag/ragcore/internal/observability"
	"github.com/huskyrag/ragcore/internal/resilience"
	"github.com/huskyrag/ragcore/pkg/types"
)

// fanOut dispatches one shard query per shard in shards, through a
// worker pool bounded to workers concurrent in-flight requests, merging
// results into merge as they arrive. It returns whether the deadline
// (rather than early-stop or shard exhaustion) is what ended the fan-out.
func fanOut(
	ctx context.Context,
	cancel context.CancelFunc,
	store StoreClient,
	merge *mergeHeap,
	shards []types.Shard,
	vector []float32,
	params modeParams,
	workers int,
	tracer trace.Tracer,
	globalSem *resilience.Semaphore,
) bool {
	sem := resilience.NewSemaphore(workers)
	var wg sync.WaitGroup

	for _, shard := range shards {
		select {
		case <-ctx.Done():
			metrics.ShardQueriesTotal.WithLabelValues("skipped_early_stop").Inc()
			continue
		default:
		}

		wg.Add(1)
		go func(shard types.Shard) {
			defer wg.Done()

			if err := sem.Acquire(ctx); err != nil {
				metrics.ShardQueriesTotal.WithLabelValues("skipped_early_stop").Inc()
				return
			}
			defer sem.Release()

			if globalSem != nil {
				if err := globalSem.Acquire(ctx); err != nil {
					metrics.ShardQueriesTotal.WithLabelValues("skipped_early_stop").Inc()
					return
				}
				defer globalSem.Release()
			}

			metrics.InFlightShardQueries.Inc()
			defer metrics.InFlightShardQueries.Dec()

			spanCtx, span := observability.StartShardSpan(ctx, tracer, observability.ShardSpanAttributes{
				CollectionID: shard.ID,
				Mode:         "",
				TopK:         params.KPerShard,
			})

			timeout := params.PerShard
			if remaining := time.Until(deadlineFromContext(ctx)); remaining > 0 && remaining < timeout {
				timeout = remaining
			}

			results, err := store.QueryCollection(spanCtx, shard.ID, vector, params.KPerShard, timeout)
			observability.RecordShardResult(span, len(results), err)
			span.End()

			if err != nil {
				metrics.ShardQueriesTotal.WithLabelValues("error").Inc()
				return
			}
			metrics.ShardQueriesTotal.WithLabelValues("ok").Inc()

			for _, c := range results {
				merge.Add(c)
			}

			if params.EarlyStop > 0 && merge.Len() >= params.EarlyStop {
				cancel()
			}
		}(shard)
	}

	wg.Wait()

	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// deadlineFromContext extracts ctx's deadline, or a zero time.Time if it
// has none (callers treat a zero deadline as "no applicable cap").
func deadlineFromContext(ctx context.Context) time.Time {
	d, ok := ctx.Deadline()
	if !ok {
		return time.Time{}
	}
	return d
}
