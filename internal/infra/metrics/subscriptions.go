package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		grantsTotal,
		revokesTotal,
		subscriptionsActive,
	)
}

var (
	grantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vipsub_grants_total",
			Help: "Subscription grants and extensions by action.",
		},
		[]string{"action"}, // 'grant', 'extend'
	)

	revokesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vipsub_revokes_total",
			Help: "Subscription revocations and reductions by action.",
		},
		[]string{"action"}, // 'revoke', 'reduce'
	)

	subscriptionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vipsub_subscriptions_active",
			Help: "Current number of active subscriptions.",
		},
	)
)

func IncGrant(action string) {
	grantsTotal.WithLabelValues(action).Inc()
}

func IncRevoke(action string) {
	revokesTotal.WithLabelValues(action).Inc()
}

func SetActiveSubscriptions(n int) {
	subscriptionsActive.Set(float64(n))
}
