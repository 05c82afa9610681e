package utils

import "github.com/prometheus/client_golang/prometheus"

var (
	BetsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roulette_bets_resolved_total",
			Help: "Resolved bets by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	BetsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roulette_bets_rejected_total",
			Help: "Rejected bet requests by reason",
		},
		[]string{"reason"},
	)

	PointsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_points_total",
			Help: "Points credited or debited by the ledger",
		},
		[]string{"direction", "source"},
	)

	SpamPenalties = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "throttle_spam_penalties_total",
			Help: "Messages denied by the spam throttle",
		},
	)
)

// RegisterMetrics adds the collectors to reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(BetsResolved, BetsRejected, PointsMoved, SpamPenalties)
}
