package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "video_edit_jobs_processed_total",
		Help: "Total number of jobs driven to a terminal state, by status and operation kind",
	}, []string{"status", "kind"})

	EngineRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "video_edit_engine_run_duration_seconds",
		Help:    "Wall time of external engine invocations",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"kind"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "video_edit_active_workers",
		Help: "Number of workers currently executing a job",
	})
)
