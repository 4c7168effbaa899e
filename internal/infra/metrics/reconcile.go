package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		reconcilePassesTotal,
		reconcileUpdatedTotal,
		reconcileDuration,
		trialsFiredTotal,
	)
}

var (
	reconcilePassesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vipsub_reconcile_passes_total",
			Help: "Reconciliation passes by outcome.",
		},
		[]string{"outcome"}, // 'ok', 'skipped', 'error'
	)

	reconcileUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vipsub_reconcile_updated_total",
			Help: "Records updated across reconciliation passes.",
		},
	)

	reconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vipsub_reconcile_duration_seconds",
			Help:    "Reconciliation pass duration.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	trialsFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vipsub_trials_fired_total",
			Help: "Free-trial timers fired by the sweep.",
		},
	)
)

func IncReconcilePass(outcome string) { reconcilePassesTotal.WithLabelValues(outcome).Inc() }

func AddReconcileUpdated(n int) { reconcileUpdatedTotal.Add(float64(n)) }

func ObserveReconcileDuration(seconds float64) { reconcileDuration.Observe(seconds) }

func AddTrialsFired(n int) { trialsFiredTotal.Add(float64(n)) }
