package retrieval

import (
	"time"

	"github.com/huskyrag/ragcore/pkg/types"
)

// modeParams holds the per-Mode fan-out discipline from spec §4.3's table.
type modeParams struct {
	ShardCap    int // 0 means "all shards" (Comprehensive)
	KPerShard   int
	PerShard    time.Duration
	EarlyStop   int // candidates accumulated before early-stop; 0 means none
	FinalTopK   int
	Budget      time.Duration
}

var modeTable = map[types.Mode]modeParams{
	types.UltraFast:     {ShardCap: 50, KPerShard: 3, PerShard: 1000 * time.Millisecond, EarlyStop: 10, FinalTopK: 15, Budget: 1500 * time.Millisecond},
	types.Fast:          {ShardCap: 200, KPerShard: 3, PerShard: 1000 * time.Millisecond, EarlyStop: 20, FinalTopK: 30, Budget: 2500 * time.Millisecond},
	types.Balanced:      {ShardCap: 500, KPerShard: 5, PerShard: 1200 * time.Millisecond, EarlyStop: 40, FinalTopK: 40, Budget: 4000 * time.Millisecond},
	types.Comprehensive: {ShardCap: 0, KPerShard: 5, PerShard: 1500 * time.Millisecond, EarlyStop: 0, FinalTopK: 60, Budget: 8000 * time.Millisecond},
}

// paramsFor returns the mode's fan-out discipline, defaulting to Fast for
// an unrecognized mode (Question.Mode is expected to already be validated
// by the time it reaches C3, but this keeps the orchestrator total).
func paramsFor(m types.Mode) modeParams {
	if p, ok := modeTable[m]; ok {
		return p
	}
	return modeTable[types.Fast]
}
