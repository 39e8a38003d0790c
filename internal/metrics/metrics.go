// Package metrics exposes Prometheus collectors for pipeline runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metapipe_runs_total",
			Help: "Total number of pipeline runs by terminal state",
		},
		[]string{"state"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metapipe_run_duration_seconds",
			Help:    "Wall-clock duration of a whole pipeline run in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Stage metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metapipe_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	StageRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "metapipe_stage_records",
			Help: "Record count produced by each stage of the last run",
		},
		[]string{"stage"},
	)

	// Memory diagnostics
	RunHeapBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metapipe_run_heap_alloc_bytes",
			Help: "Heap bytes allocated over the course of the last run",
		},
	)
)
