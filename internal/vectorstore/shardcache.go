package vectorstore

import (
	"sync/atomic"
	"time"

	"github.com/huskyrag/ragcore/pkg/types"
)

// shardListSnapshot is the immutable payload behind the atomic.Pointer -
// replacement is always whole-value, so a reader never observes a
// partially populated list (spec §3 CachedShardList invariant).
type shardListSnapshot struct {
	fetchedAt time.Time
	shards    []types.Shard
}

// shardCache is C2's CachedShardList: a TTL-bounded, copy-on-write cache
// of the store's shard collections.
type shardCache struct {
	ttl  time.Duration
	snap atomic.Pointer[shardListSnapshot]
}

func newShardCache(ttl time.Duration) *shardCache {
	return &shardCache{ttl: ttl}
}

// fresh reports whether the current snapshot is non-nil and within TTL.
func (c *shardCache) fresh(now time.Time) bool {
	s := c.snap.Load()
	return s != nil && now.Sub(s.fetchedAt) < c.ttl
}

// get returns the current snapshot's shards, or (nil, false) if nothing
// has ever been cached.
func (c *shardCache) get() ([]types.Shard, bool) {
	s := c.snap.Load()
	if s == nil {
		return nil, false
	}
	return s.shards, true
}

// replace atomically swaps in a freshly fetched shard list.
func (c *shardCache) replace(shards []types.Shard, now time.Time) {
	c.snap.Store(&shardListSnapshot{fetchedAt: now, shards: shards})
}
