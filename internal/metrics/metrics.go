// Package metrics provides Prometheus metrics for clarity.
// Gauges mirror the last computed dashboard; counters track model and API activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Schedule ───────────────────────────────────────────────────────────────

// CognitiveLoad is today's cognitive load score.
var CognitiveLoad = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "clarity",
	Name:      "cognitive_load_score",
	Help:      "Cognitive load score of today's schedule (0-100).",
})

// Realism is today's schedule realism score.
var Realism = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "clarity",
	Name:      "schedule_realism_score",
	Help:      "Realism score of today's schedule (0-100).",
})

// ─── Tasks ──────────────────────────────────────────────────────────────────

// Tasks counts stored tasks by state (completed, incomplete).
var Tasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "clarity",
	Name:      "tasks",
	Help:      "Number of stored tasks.",
}, []string{"state"})

// ─── Drift ──────────────────────────────────────────────────────────────────

// DriftMAE is the held-out mean absolute error of the current model.
var DriftMAE = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "clarity",
	Name:      "drift_model_mae",
	Help:      "Mean absolute error of the drift model's duration ratio.",
})

// DriftTrainings counts training attempts by status.
var DriftTrainings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clarity",
	Name:      "drift_trainings_total",
	Help:      "Total drift model training attempts.",
}, []string{"status"})

// DriftPredictions counts duration predictions by method.
var DriftPredictions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clarity",
	Name:      "drift_predictions_total",
	Help:      "Total duration predictions.",
}, []string{"method"})

// ─── Prioritization ─────────────────────────────────────────────────────────

// StrategicEnhancements counts strategic scoring attempts by outcome (applied, fallback).
var StrategicEnhancements = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clarity",
	Name:      "strategic_enhancements_total",
	Help:      "Total strategic value enhancement attempts.",
}, []string{"outcome"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// RequestDuration tracks API request duration in seconds.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "clarity",
	Name:      "http_request_duration_seconds",
	Help:      "API request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Strategic enhancement outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeFallback = "fallback"
)

// Task states.
const (
	StateCompleted  = "completed"
	StateIncomplete = "incomplete"
)

// RecordTasks sets the task gauges.
func RecordTasks(completed, incomplete int) {
	Tasks.WithLabelValues(StateCompleted).Set(float64(completed))
	Tasks.WithLabelValues(StateIncomplete).Set(float64(incomplete))
}

// RecordEnhancement counts one strategic enhancement attempt.
func RecordEnhancement(applied bool) {
	outcome := OutcomeFallback
	if applied {
		outcome = OutcomeApplied
	}
	StrategicEnhancements.WithLabelValues(outcome).Inc()
}
