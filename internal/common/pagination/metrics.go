package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the paginated book listing. Registered on the default
// registry so the /metrics endpoint picks them up without wiring.
var (
	// RequestsTotal counts list requests by HTTP status and page bucket.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_pagination_requests_total",
			Help: "Total number of pagination requests",
		},
		[]string{"status", "page_range"},
	)

	// DurationSeconds observes per-stage latency. The operation label
	// names the stage (handler, service, repository).
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "book_pagination_duration_seconds",
			Help:    "Request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)

	// TotalCount is the corpus size as of the last list query.
	TotalCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "book_list_total_count",
			Help: "Current total number of books",
		},
	)

	// ErrorsTotal counts failures by type (validation, index, timeout).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

// RecordRequest counts one request under its status code and page bucket.
func RecordRequest(statusCode int, page int) {
	RequestsTotal.WithLabelValues(strconv.Itoa(statusCode), pageBucket(page)).Inc()
}

// RecordDuration observes how long an operation stage took, in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// UpdateTotalCount sets the corpus size gauge.
func UpdateTotalCount(count int64) {
	TotalCount.Set(float64(count))
}

// RecordError counts one failure of the given type.
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// pageBucket keeps the page label at fixed cardinality. Deep pages are
// rare and get a single shared bucket.
func pageBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
