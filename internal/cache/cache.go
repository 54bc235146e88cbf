// Package cache defines the second-tier cache contract used by C1's
// embedding cache; C2's shard-list cache does not use it. The in-process tier (a
// size-bounded LRU-with-TTL, built on hashicorp/golang-lru's expirable
// cache) never needs this interface; it exists so a Redis-backed tier can
// sit behind it transparently for multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
