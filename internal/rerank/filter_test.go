package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huskyrag/ragcore/pkg/types"
)

func TestFilter_DropsLowSimilarity(t *testing.T) {
	candidates := []types.Candidate{
		{DocID: "a", Similarity: 0.9},
		{DocID: "b", Similarity: 0.05},
		{DocID: "c", Similarity: 0.5},
		{DocID: "d", Similarity: 0.6},
	}
	out := filter(candidates)
	var ids []string
	for _, c := range out {
		ids = append(ids, c.DocID)
	}
	assert.ElementsMatch(t, []string{"a", "c", "d"}, ids)
}

func TestFilter_GracefulFloorReintroducesHighestSimilarityDropped(t *testing.T) {
	candidates := []types.Candidate{
		{DocID: "a", Similarity: 0.9},
		{DocID: "b", Similarity: 0.05},
		{DocID: "c", Similarity: 0.10},
		{DocID: "d", Similarity: 0.02},
	}
	out := filter(candidates)
	assert.Len(t, out, 3)

	var ids []string
	for _, c := range out {
		ids = append(ids, c.DocID)
	}
	assert.Contains(t, ids, "a")
	assert.Contains(t, ids, "c", "higher-similarity dropped candidate should be reintroduced before lower ones")
	assert.NotContains(t, ids, "d")
}

func TestFilter_NeverExceedsFloorWhenFewerThanFloorExist(t *testing.T) {
	candidates := []types.Candidate{
		{DocID: "a", Similarity: 0.01},
	}
	out := filter(candidates)
	assert.Len(t, out, 1)
}

func TestFilter_AllAboveThresholdReturnedUnchanged(t *testing.T) {
	candidates := []types.Candidate{
		{DocID: "a", Similarity: 0.9},
		{DocID: "b", Similarity: 0.8},
	}
	out := filter(candidates)
	assert.Len(t, out, 2)
}
