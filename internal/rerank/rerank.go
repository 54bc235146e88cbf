// Package rerank implements C4: title/URL synthesis, the
// similarity-plus-textual-signal relevance formula, low-similarity
// filtering with a graceful floor, and final ranking.
package rerank

import (
	"sort"

	"github.com/huskyrag/ragcore/pkg/types"
)

// Layer is C4. It holds no state; every call is a pure function of its
// arguments, satisfying spec §8 invariant 2 (ranking is a pure function of
// candidate contents).
type Layer struct{}

// New constructs a Layer.
func New() *Layer {
	return &Layer{}
}

// Rank synthesizes title/url, scores relevance, filters, and returns
// candidates sorted by relevance descending (ties: similarity descending,
// then doc_id ascending), per spec §4.4.
func (l *Layer) Rank(query string, candidates []types.Candidate) []types.Candidate {
	scored := make([]types.Candidate, len(candidates))
	for i, c := range candidates {
		c.Similarity = types.Similarity(c.RawDistance, types.Cosine)
		c.Title = synthesizeTitle(c.Metadata["title"], c.Content)
		c.URL = synthesizeURL(c.Metadata["url"], c.Content)
		c.Relevance = relevance(query, c.Title, c.Content, c.Similarity)
		scored[i] = c
	}

	filtered := filter(scored)

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.DocID < b.DocID
	})

	return filtered
}
