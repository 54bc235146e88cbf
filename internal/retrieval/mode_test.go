package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huskyrag/ragcore/pkg/types"
)

func TestParamsFor_KnownModes(t *testing.T) {
	for _, m := range []types.Mode{types.UltraFast, types.Fast, types.Balanced, types.Comprehensive} {
		p := paramsFor(m)
		assert.Greater(t, p.KPerShard, 0)
		assert.Greater(t, p.FinalTopK, 0)
		assert.Greater(t, p.Budget.Seconds(), 0.0)
	}
}

func TestParamsFor_UnknownModeFallsBackToFast(t *testing.T) {
	p := paramsFor(types.Mode("bogus"))
	assert.Equal(t, modeTable[types.Fast], p)
}

func TestModeTable_ComprehensiveHasNoShardCapOrEarlyStop(t *testing.T) {
	p := modeTable[types.Comprehensive]
	assert.Equal(t, 0, p.ShardCap)
	assert.Equal(t, 0, p.EarlyStop)
}

func TestModeTable_IncreasingThoroughness(t *testing.T) {
	ultraFast := modeTable[types.UltraFast]
	fast := modeTable[types.Fast]
	balanced := modeTable[types.Balanced]
	comprehensive := modeTable[types.Comprehensive]

	assert.Less(t, ultraFast.FinalTopK, fast.FinalTopK)
	assert.Less(t, fast.FinalTopK, balanced.FinalTopK)
	assert.Less(t, balanced.FinalTopK, comprehensive.FinalTopK)

	assert.Less(t, ultraFast.Budget, fast.Budget)
	assert.Less(t, fast.Budget, balanced.Budget)
	assert.Less(t, balanced.Budget, comprehensive.Budget)
}
