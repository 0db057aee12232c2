// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	CreatorRankings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_rankings_total",
			Help: "Ranking runs by outcome (ok, not_found, upstream_error)",
		},
		[]string{"status"},
	)

	CreatorRankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "creator_ranking_duration_seconds",
			Help:    "End-to-end duration of a ranking run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	CreatorPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "creator_pool_size",
			Help:    "Number of published creators scored per ranking run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	CreatorMatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "creator_match_score",
			Help:    "Distribution of creator match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 20),
		},
	)
)

// Ranking outcome labels for CreatorRankings.
const (
	StatusOK            = "ok"
	StatusNotFound      = "not_found"
	StatusUpstreamError = "upstream_error"
)
