package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1_pages_fetched_total",
		Help: "Total API pages fetched per endpoint",
	}, []string{"endpoint"})

	rowsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1_rows_written_total",
		Help: "Total rows written per endpoint and sink",
	}, []string{"endpoint", "sink"})

	endpointDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "f1_endpoint_duration_seconds",
		Help:    "Time to fetch, flatten, and store one endpoint",
		Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"endpoint"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1_runs_total",
		Help: "Total pipeline runs by outcome",
	}, []string{"status"})
)
