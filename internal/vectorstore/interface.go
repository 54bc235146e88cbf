// Package vectorstore implements C2, the adapter over the remote vector
// store: collection discovery (with a cached shard list) and
// cosine-similarity top-k query, used by C3's fan-out.
package vectorstore

import (
	"context"
	"time"

	"github.com/huskyrag/ragcore/pkg/types"
)

// Store is the narrow contract a concrete vector-store backend must
// satisfy. Qdrant (qdrant.go) implements it.
type Store interface {
	// QueryCollection runs a cosine-similarity top-k search against one
	// collection and returns raw candidates (Similarity/Relevance/Title
	// are not populated yet - that's C4's job).
	QueryCollection(ctx context.Context, collectionID string, vector []float32, k int, timeout time.Duration) ([]types.Candidate, error)

	// ListCollections returns every collection the store currently holds,
	// unfiltered - shard-vs-bookkeeping classification happens in Client.
	ListCollections(ctx context.Context) ([]types.Shard, error)
}
