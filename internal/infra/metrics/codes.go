package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		codesIssuedTotal,
		codesRedeemedTotal,
	)
}

var (
	codesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vipsub_codes_issued_total",
			Help: "Activation codes generated.",
		},
	)

	codesRedeemedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vipsub_codes_redeemed_total",
			Help: "Redemption attempts by outcome.",
		},
		[]string{"outcome"}, // 'ok', 'not_found', 'already_redeemed', 'expired'
	)
)

func IncCodeIssued() { codesIssuedTotal.Inc() }

func IncCodeRedeemed(outcome string) { codesRedeemedTotal.WithLabelValues(outcome).Inc() }
