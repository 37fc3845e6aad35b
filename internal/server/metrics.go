package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	computationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bounds_computations_total",
		Help: "Bound computations by target function and outcome.",
	}, []string{"target", "outcome"})

	computationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bounds_computation_duration_seconds",
		Help:    "Wall time of a full lower+upper bound computation.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	refinementIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bounds_refinement_iterations",
		Help:    "Fit/certify iterations per computation, both sides combined.",
		Buckets: prometheus.LinearBuckets(2, 2, 16),
	})

	finalSampleCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bounds_final_samples",
		Help:    "Cells in the certified working sets, both sides combined.",
		Buckets: prometheus.ExponentialBuckets(64, 2, 12),
	})
)
