package embedding

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/huskyrag/ragcore/internal/cache"
)

// defaultCacheMaxSize is the entry bound applied when the configured max
// size is zero or negative, matching spec §3's CachedEmbedding example.
const defaultCacheMaxSize = 1024

// normalizeCacheKey collapses internal whitespace and lowercases text so
// that near-identical questions ("What programs?" vs "what programs? ")
// share a cache entry. On a miss the provider receives the text trimmed of
// surrounding whitespace, not this normalized key.
func normalizeCacheKey(text string) string {
	fields := strings.Fields(text)
	return strings.ToLower(strings.Join(fields, " "))
}

// vectorCache is C1's two-tier CachedEmbedding store: an in-process,
// size-bounded LRU-with-TTL (always present) backed optionally by a shared
// Redis tier so repeated questions hit cache across process restarts and
// across multiple engine instances. The local tier evicts both on TTL
// expiry and once maxSize entries are held, per spec §3's "bounded
// entries" invariant.
type vectorCache struct {
	local *expirable.LRU[string, []float32]
	tier2 cache.Cache // nil when no Redis tier is configured
}

func newVectorCache(ttl time.Duration, maxSize int, tier2 cache.Cache) *vectorCache {
	if maxSize <= 0 {
		maxSize = defaultCacheMaxSize
	}
	return &vectorCache{
		local: expirable.NewLRU[string, []float32](maxSize, nil, ttl),
		tier2: tier2,
	}
}

func (c *vectorCache) get(ctx context.Context, text string) ([]float32, bool) {
	key := normalizeCacheKey(text)

	if vec, found := c.local.Get(key); found {
		return vec, true
	}

	if c.tier2 == nil {
		return nil, false
	}

	raw, err := c.tier2.Get(ctx, key)
	if err != nil || raw == nil {
		return nil, false
	}
	vec := decodeVector(raw)
	if vec == nil {
		return nil, false
	}
	c.local.Add(key, vec)
	return vec, true
}

func (c *vectorCache) put(ctx context.Context, text string, vec []float32, ttl time.Duration) {
	key := normalizeCacheKey(text)
	c.local.Add(key, vec)

	if c.tier2 == nil {
		return
	}
	_ = c.tier2.Set(ctx, key, encodeVector(vec), ttl)
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		bits := math.Float32bits(f)
		buf[i*4+0] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	if len(buf)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		bits := uint32(buf[i*4+0]) | uint32(buf[i*4+1])<<8 | uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
		vec[i] = math.Float32frombits(bits)
	}
	return vec
}
