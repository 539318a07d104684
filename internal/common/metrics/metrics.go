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

	// JD cache

	JDCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_jd_cache_lookups_total",
			Help: "JD text cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	JDCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ats_jd_cache_evictions_total",
			Help: "JD entries removed by reload or clear",
		},
	)

	// Engine

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ats_text_extraction_duration_seconds",
			Help:    "Time spent extracting text from documents",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	ATSScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ats_score",
			Help:    "Distribution of computed ATS scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_pipeline_runs_total",
			Help: "Resume processing runs by outcome",
		},
		[]string{"outcome"},
	)
)
