package retrieval

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huskyrag/ragcore/pkg/types"
)

func TestMergeHeap_DrainReturnsAscendingByDistance(t *testing.T) {
	h := newMergeHeap(10)
	h.Add(types.Candidate{DocID: "c", CollectionID: "s1", RawDistance: 0.3})
	h.Add(types.Candidate{DocID: "a", CollectionID: "s1", RawDistance: 0.1})
	h.Add(types.Candidate{DocID: "b", CollectionID: "s1", RawDistance: 0.2})

	out := h.Drain()
	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].DocID, out[1].DocID, out[2].DocID})
}

func TestMergeHeap_DedupKeepsLowerDistance(t *testing.T) {
	h := newMergeHeap(10)
	h.Add(types.Candidate{DocID: "dup", CollectionID: "s1", RawDistance: 0.5})
	h.Add(types.Candidate{DocID: "dup", CollectionID: "s2", RawDistance: 0.2})
	h.Add(types.Candidate{DocID: "dup", CollectionID: "s3", RawDistance: 0.8})

	out := h.Drain()
	assert.Len(t, out, 1)
	assert.Equal(t, 0.2, out[0].RawDistance)
	assert.Equal(t, "s2", out[0].CollectionID)
}

func TestMergeHeap_EvictsWorstAtCapacity(t *testing.T) {
	h := newMergeHeap(3)
	h.Add(types.Candidate{DocID: "a", CollectionID: "s1", RawDistance: 0.1})
	h.Add(types.Candidate{DocID: "b", CollectionID: "s1", RawDistance: 0.2})
	h.Add(types.Candidate{DocID: "c", CollectionID: "s1", RawDistance: 0.3})
	assert.Equal(t, 3, h.Len())

	// Worse than everything held - should be dropped, not added.
	h.Add(types.Candidate{DocID: "d", CollectionID: "s1", RawDistance: 0.9})
	assert.Equal(t, 3, h.Len())

	// Better than the current worst (c, 0.3) - should evict c.
	h.Add(types.Candidate{DocID: "e", CollectionID: "s1", RawDistance: 0.05})

	out := h.Drain()
	var ids []string
	for _, c := range out {
		ids = append(ids, c.DocID)
	}
	assert.ElementsMatch(t, []string{"e", "a", "b"}, ids)
}

func TestMergeHeap_TieBreakOrder(t *testing.T) {
	h := newMergeHeap(10)
	h.Add(types.Candidate{DocID: "z", CollectionID: "shardB", RawDistance: 0.5})
	h.Add(types.Candidate{DocID: "a", CollectionID: "shardA", RawDistance: 0.5})

	out := h.Drain()
	assert.Equal(t, "shardA", out[0].CollectionID, "equal distance should break tie by CollectionID ascending")
	assert.Equal(t, "shardB", out[1].CollectionID)
}

func TestMergeHeap_ConcurrentAddIsSafe(t *testing.T) {
	h := newMergeHeap(50)
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Add(types.Candidate{
				DocID:        fmt.Sprintf("doc-%d", i),
				CollectionID: "s1",
				RawDistance:  rand.Float64(),
			})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())
}
