// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation engine metrics track query patterns and performance.
var (
	// RecommendationsServedTotal counts recommendation queries by the path
	// that produced the result: "title" (fuzzy title match), "content"
	// (substring fallback), or "none" (no recommendations found).
	RecommendationsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total recommendation queries by resolution path",
		},
		[]string{"path"},
	)

	// RecommendationQueryDuration measures end-to-end recommendation query
	// duration in seconds. Buckets favor the sub-second range because the
	// query path is CPU-bound over an in-memory index.
	RecommendationQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Recommendation query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// RecommendationFailuresTotal counts recovered per-query faults. These
	// never crash the engine; they surface as empty results.
	RecommendationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_query_failures_total",
			Help: "Total recovered internal faults during recommendation queries",
		},
	)

	// FuzzyMatchScore observes the winning fuzzy title-match score (0-100)
	// for queries that resolved through the title path.
	FuzzyMatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_fuzzy_match_score",
			Help:    "Winning fuzzy title-match scores",
			Buckets: []float64{60, 70, 80, 90, 95, 100},
		},
	)
)

// Index build metrics track the offline build and its snapshots.
var (
	// IndexBuildDuration measures full index builds in seconds.
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_index_build_duration_seconds",
			Help:    "Recommendation index build duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// IndexBuildsTotal counts index builds by outcome.
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_index_builds_total",
			Help: "Total index builds by status",
		},
		[]string{"status"},
	)

	// IndexBooksTotal reports the corpus size of the live snapshot.
	IndexBooksTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_index_books_total",
			Help: "Number of books in the live index snapshot",
		},
	)

	// IndexVocabularySize reports the fitted vocabulary size of the live
	// snapshot.
	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_index_vocabulary_size",
			Help: "Vocabulary size of the live index snapshot",
		},
	)
)
