package retrieval

import (
	"container/heap"
	"sort"
	"sync"

	"github.com/huskyrag/ragcore/pkg/types"
)

// mergeHeap is the bounded min-heap from spec §4.3: it keeps at most
// capacity candidates, evicting the worst (highest RawDistance) as better
// ones arrive. Implemented internally as a max-heap on RawDistance so the
// candidate to evict is always at the root. Duplicates (same DocID) are
// collapsed, keeping the lower distance. Ties break by CollectionID
// ascending then DocID ascending, per spec §4.3, so results are
// reproducible across runs when the same shards respond (spec §8
// invariant 3).
type mergeHeap struct {
	mu    sync.Mutex
	items candidateSlice
	byID  map[string]*heapItem
	cap   int
}

type heapItem struct {
	candidate types.Candidate
	index     int
}

type candidateSlice []*heapItem

func (s candidateSlice) Len() int { return len(s) }

// Less orders the slice as a max-heap on RawDistance (the item we'd want
// to evict - the worst one - floats to index 0), with deterministic
// tie-breaks per spec §4.3.
func (s candidateSlice) Less(i, j int) bool {
	a, b := s[i].candidate, s[j].candidate
	if a.RawDistance != b.RawDistance {
		return a.RawDistance > b.RawDistance
	}
	if a.CollectionID != b.CollectionID {
		return a.CollectionID > b.CollectionID
	}
	return a.DocID > b.DocID
}

func (s candidateSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *candidateSlice) Push(x any) {
	item := x.(*heapItem)
	item.index = len(*s)
	*s = append(*s, item)
}

func (s *candidateSlice) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return item
}

// newMergeHeap builds a merge heap bounded to capacity entries.
func newMergeHeap(capacity int) *mergeHeap {
	if capacity <= 0 {
		capacity = 1
	}
	return &mergeHeap{
		items: make(candidateSlice, 0, capacity),
		byID:  make(map[string]*heapItem, capacity),
		cap:   capacity,
	}
}

// Add offers a candidate to the heap. It is safe for concurrent use by
// C3's fan-out worker pool.
func (m *mergeHeap) Add(c types.Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byID[c.DocID]; ok {
		if c.RawDistance < existing.candidate.RawDistance {
			existing.candidate = c
			heap.Fix(&m.items, existing.index)
		}
		return
	}

	if len(m.items) < m.cap {
		item := &heapItem{candidate: c}
		heap.Push(&m.items, item)
		m.byID[c.DocID] = item
		return
	}

	worst := m.items[0]
	if c.RawDistance >= worst.candidate.RawDistance {
		return
	}

	delete(m.byID, worst.candidate.DocID)
	worst.candidate = c
	heap.Fix(&m.items, 0)
	m.byID[c.DocID] = worst
}

// Len reports how many candidates are currently held.
func (m *mergeHeap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Drain returns every held candidate sorted by RawDistance ascending,
// consuming the heap's contents.
func (m *mergeHeap) Drain() []types.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.Candidate, len(m.items))
	for i, item := range m.items {
		out[i] = item.candidate
	}
	m.items = m.items[:0]
	m.byID = make(map[string]*heapItem, m.cap)
	// candidateSlice is a max-heap on RawDistance; sort ascending for
	// output so the best (lowest distance) candidate comes first.
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func less(a, b types.Candidate) bool {
	if a.RawDistance != b.RawDistance {
		return a.RawDistance < b.RawDistance
	}
	if a.CollectionID != b.CollectionID {
		return a.CollectionID < b.CollectionID
	}
	return a.DocID < b.DocID
}
