package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total authentication requests by result",
		},
		[]string{"result"}, // result: success | failure
	)

	authDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Authentication request duration",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Forbidden access attempts by method",
		},
		[]string{"method"},
	)
)

// RecordAuthRequest records an authentication attempt outcome.
func RecordAuthRequest(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	authRequestsTotal.WithLabelValues(result).Inc()
}

// RecordAuthDuration records how long an authentication attempt took.
func RecordAuthDuration(seconds float64) {
	authDuration.Observe(seconds)
}

// RecordForbiddenAttempt records a request rejected for lacking the
// admin role.
func RecordForbiddenAttempt(method string) {
	forbiddenAttempts.WithLabelValues(method).Inc()
}
