package worker

import (
	"bookrec/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the worker component.
// It embeds ConfigMetrics for configuration monitoring and adds
// job-level metrics for the scheduled reindex runs.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts reindex runs by status (success/failure).
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds measures reindex run duration.
	CronJobDurationSeconds prometheus.Histogram

	// CronJobBooksIndexedTotal counts books indexed across all runs.
	CronJobBooksIndexedTotal prometheus.Counter

	// CronJobLastSuccessTimestamp is the Unix time of the last
	// successful run.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates the worker metrics. Registration happens via
// promauto at creation time.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of reindex runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of reindex run in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		CronJobBooksIndexedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_books_indexed_total",
			Help: "Total number of books indexed across all reindex runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful reindex run",
		}),
	}
}

// MustRegister is a no-op kept for API symmetry; promauto already
// registered everything in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun increments the run counter. Status is "success",
// "failure", or "skipped".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a run duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordBooksIndexed adds the number of books indexed in a run.
func (m *WorkerMetrics) RecordBooksIndexed(count int) {
	m.CronJobBooksIndexedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the last successful run time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
