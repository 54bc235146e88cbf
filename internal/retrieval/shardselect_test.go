package retrieval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huskyrag/ragcore/pkg/types"
)

func makeNamedShards(n int) []types.Shard {
	shards := make([]types.Shard, n)
	for i := range shards {
		shards[i] = types.Shard{ID: fmt.Sprintf("shard-%d", i), Name: fmt.Sprintf("shard-%d", i)}
	}
	return shards
}

func TestSelectShards_Deterministic(t *testing.T) {
	shards := makeNamedShards(20)

	first := selectShards(shards, 8)
	second := selectShards(shards, 8)

	assert.Equal(t, first, second)
}

func TestSelectShards_RespectsCap(t *testing.T) {
	shards := makeNamedShards(20)
	selected := selectShards(shards, 8)
	assert.Len(t, selected, 8)
}

func TestSelectShards_ZeroCapReturnsAll(t *testing.T) {
	shards := makeNamedShards(5)
	selected := selectShards(shards, 0)
	assert.Len(t, selected, 5)
}

func TestSelectShards_CapAboveCountReturnsAll(t *testing.T) {
	shards := makeNamedShards(5)
	selected := selectShards(shards, 100)
	assert.Len(t, selected, 5)
}

func TestSelectShards_StableAcrossSubsetGrowth(t *testing.T) {
	shards := makeNamedShards(50)

	small := selectShards(shards, 5)
	large := selectShards(shards, 25)

	smallIDs := make(map[string]bool, len(small))
	for _, s := range small {
		smallIDs[s.ID] = true
	}
	for _, s := range large[:5] {
		assert.True(t, smallIDs[s.ID], "growing the cap should not reorder the previously selected shards")
	}
}
