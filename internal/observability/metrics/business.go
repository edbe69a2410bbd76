package metrics

import "time"

// RecordRecommendationServed records one completed recommendation query.
// Path should be "title", "content", or "none".
func RecordRecommendationServed(path string, duration time.Duration) {
	RecommendationsServedTotal.WithLabelValues(path).Inc()
	RecommendationQueryDuration.Observe(duration.Seconds())
}

// RecordRecommendationFailure records a recovered internal fault during a
// single query.
func RecordRecommendationFailure() {
	RecommendationFailuresTotal.Inc()
}

// RecordFuzzyMatchScore records the winning title-match score for a
// title-path query.
func RecordFuzzyMatchScore(score int) {
	FuzzyMatchScore.Observe(float64(score))
}

// RecordIndexBuild records the outcome of an index build. On success the
// live-snapshot gauges are updated to the new corpus and vocabulary sizes.
func RecordIndexBuild(success bool, duration time.Duration, books, vocabulary int) {
	status := "success"
	if !success {
		status = "failure"
	}
	IndexBuildsTotal.WithLabelValues(status).Inc()
	if success {
		IndexBuildDuration.Observe(duration.Seconds())
		IndexBooksTotal.Set(float64(books))
		IndexVocabularySize.Set(float64(vocabulary))
	}
}
