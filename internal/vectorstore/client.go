package vectorstore

import (
	"context"
	"strings"
	"time"

	"github.com/huskyrag/ragcore/internal/resilience"
	ragerrors "github.com/huskyrag/ragcore/pkg/errors"
	"github.com/huskyrag/ragcore/pkg/types"
)

var _ Store = (*Qdrant)(nil)

// Client is C2: the vector-store adapter C3 talks to. It wraps a Store
// backend with the shard-list cache and the per-collection-failure /
// global-failure error mapping spec §4.2 and §7 require.
type Client struct {
	store    Store
	cache    *shardCache
	throttle *resilience.Throttle
}

// NewClient constructs a Client backed by store, caching shard lists for
// shardCacheTTL. throttle may be nil, in which case upstream calls are
// unthrottled.
func NewClient(store Store, shardCacheTTL time.Duration, throttle *resilience.Throttle) *Client {
	return &Client{store: store, cache: newShardCache(shardCacheTTL), throttle: throttle}
}

// QueryCollection runs one collection's top-k search. Per-collection
// failures (timeout, transport error, missing collection) are
// non-fatal: they surface as an empty candidate list, never as an error,
// so a single bad shard cannot sink a whole fan-out (spec §4.2, §7
// PartialShardFailure).
func (c *Client) QueryCollection(ctx context.Context, collectionID string, vector []float32, k int, timeout time.Duration) ([]types.Candidate, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return []types.Candidate{}, nil
		}
	}

	candidates, err := c.store.QueryCollection(ctx, collectionID, vector, k, timeout)
	if err != nil {
		return []types.Candidate{}, nil
	}
	return candidates, nil
}

// ListShards returns the corpus shards - collections whose name contains
// "batch", per spec §3 - using the cached list unless forceRefresh is set
// or the cache is empty or older than its TTL. On a fetch failure it falls back
// to whatever was last cached, however stale, and only returns
// VectorStoreUnavailable when there is no cached list at all to fall back
// on (spec §4.3, §7).
func (c *Client) ListShards(ctx context.Context, traceID string, forceRefresh bool) ([]types.Shard, error) {
	now := time.Now()

	if !forceRefresh && c.cache.fresh(now) {
		shards, _ := c.cache.get()
		return shards, nil
	}

	all, err := c.store.ListCollections(ctx)
	if err != nil {
		if cached, ok := c.cache.get(); ok {
			return cached, nil
		}
		return nil, ragerrors.Wrap(ragerrors.KindVectorStoreUnavailable, traceID, "could not list vector store collections and no cached shard list exists", err)
	}

	shards := make([]types.Shard, 0, len(all))
	for _, s := range all {
		if strings.Contains(s.Name, "batch") {
			shards = append(shards, s)
		}
	}

	c.cache.replace(shards, now)
	return shards, nil
}
