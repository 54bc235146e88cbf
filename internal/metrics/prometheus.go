// Package metrics provides Prometheus metrics collection for the
// retrieval engine's C1-C5 pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ragcore"

// LatencyBuckets defines histogram buckets for sub-second to multi-second
// pipeline stage latencies.
var LatencyBuckets = []float64{
	0.005, 0.0125, 0.025, 0.05, 0.1, 0.25, 0.5,
	0.75, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0, 5.0, 7.5, 10.0, 15.0,
}

var (
	// QuestionsTotal counts answered questions by mode and outcome.
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Total questions answered, by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// StageLatency tracks wall-clock duration of each pipeline stage.
	StageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_latency_seconds",
			Help:      "Pipeline stage latency in seconds",
			Buckets:   LatencyBuckets,
		},
		[]string{"stage", "mode"},
	)

	// TotalLatency tracks end-to-end question latency.
	TotalLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_latency_seconds",
			Help:      "End-to-end question latency in seconds",
			Buckets:   LatencyBuckets,
		},
		[]string{"mode"},
	)
)

var (
	// ShardQueriesTotal counts per-shard queries issued by C3's fan-out.
	ShardQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shard_queries_total",
			Help:      "Total shard queries issued, by outcome",
		},
		[]string{"outcome"}, // ok, error, skipped_early_stop
	)

	// ShardsSelected tracks how many shards a question's fan-out queried.
	ShardsSelected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shards_selected",
			Help:      "Number of shards selected for a question's fan-out",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
		[]string{"mode"},
	)

	// InFlightShardQueries is the current number of shard queries running
	// concurrently across all in-flight questions.
	InFlightShardQueries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shard_queries_in_flight",
			Help:      "Current number of concurrently executing shard queries",
		},
	)
)

var (
	// EmbeddingCacheResults counts embedding cache lookups by hit/miss.
	EmbeddingCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_results_total",
			Help:      "Embedding cache lookups, by result",
		},
		[]string{"result"}, // hit, miss
	)

	// LLMCallsTotal counts C5 chat-completion calls by provider and outcome.
	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "LLM answer-generation calls, by provider and outcome",
		},
		[]string{"provider", "outcome"}, // outcome: ok, error, retried_ok
	)

	// CandidatesAfterFilter tracks how many candidates survive C4's
	// relevance filter before being handed to C5.
	CandidatesAfterFilter = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_after_filter",
			Help:      "Number of candidates surviving relevance filtering",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"mode"},
	)
)
