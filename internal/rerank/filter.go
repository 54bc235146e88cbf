package rerank

import (
	"sort"

	"github.com/huskyrag/ragcore/pkg/types"
)

// minSimilarity is the drop threshold from spec §4.4.
const minSimilarity = 0.15

// gracefulFloor is the minimum candidate count filtering must preserve.
const gracefulFloor = 3

// filter drops low-similarity candidates, then reintroduces the
// highest-similarity dropped ones (the "graceful floor") if filtering
// would otherwise leave fewer than gracefulFloor candidates.
func filter(candidates []types.Candidate) []types.Candidate {
	kept := make([]types.Candidate, 0, len(candidates))
	dropped := make([]types.Candidate, 0)
	for _, c := range candidates {
		if c.Similarity < minSimilarity {
			dropped = append(dropped, c)
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) >= gracefulFloor || len(dropped) == 0 {
		return kept
	}

	sort.Slice(dropped, func(i, j int) bool { return dropped[i].Similarity > dropped[j].Similarity })

	need := gracefulFloor - len(kept)
	if need > len(dropped) {
		need = len(dropped)
	}
	return append(kept, dropped[:need]...)
}
