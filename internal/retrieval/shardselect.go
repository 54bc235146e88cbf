package retrieval

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/huskyrag/ragcore/pkg/types"
)

// selectShards implements spec §9 Open Question 2's resolution:
// deterministic selection by sorting shards on xxhash.Sum64String(name)
// ascending and taking the first min(cap, len(shards)). Same shard set
// always produces the same order, so repeated queries in the same mode
// see a stable shard selection. Every cap takes a prefix of that one
// order, so over the same shard set a Balanced query's selection always
// contains a Fast query's.
func selectShards(shards []types.Shard, cap int) []types.Shard {
	if cap <= 0 || cap >= len(shards) {
		sorted := make([]types.Shard, len(shards))
		copy(sorted, shards)
		sortShardsByHash(sorted)
		return sorted
	}

	sorted := make([]types.Shard, len(shards))
	copy(sorted, shards)
	sortShardsByHash(sorted)
	return sorted[:cap]
}

func sortShardsByHash(shards []types.Shard) {
	sort.Slice(shards, func(i, j int) bool {
		hi, hj := xxhash.Sum64String(shards[i].Name), xxhash.Sum64String(shards[j].Name)
		if hi != hj {
			return hi < hj
		}
		return shards[i].Name < shards[j].Name
	})
}
