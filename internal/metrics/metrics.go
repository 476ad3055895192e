// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marathon_trainer"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	PlansGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "plans_generated_total",
			Help:      "Training plans generated, by outcome",
		},
		[]string{"status"},
	)

	PlanGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating one plan",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05},
		},
	)

	PlanWeeks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "plan_weeks",
			Help:      "Length of generated plans in weeks",
			Buckets:   prometheus.LinearBuckets(8, 1, 9),
		},
	)

	WorkoutsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plans",
			Name:      "workouts_completed_total",
			Help:      "Workouts marked complete, by workout type",
		},
		[]string{"type"},
	)

	PlanWriteConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plans",
			Name:      "write_conflicts_total",
			Help:      "Plan replacements rejected because of a stale version",
		},
	)

	PlanExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plans",
			Name:      "exports_total",
			Help:      "Plan exports uploaded to object storage, by outcome",
		},
		[]string{"status"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Plan cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
