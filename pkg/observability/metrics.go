package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ledger operation counters, labelled by tenant so per-book activity can be
// separated on one dashboard.
var (
	PaymentsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_engine_payments_applied_total",
		Help: "Number of payment events applied to loans.",
	}, []string{"tenant", "type"})

	PaymentsReversed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_engine_payments_reversed_total",
		Help: "Number of payment events reversed.",
	}, []string{"tenant", "type"})

	PenaltiesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_engine_penalties_applied_total",
		Help: "Number of penalty applications persisted to installments.",
	}, []string{"tenant"})

	ScoresComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_engine_scores_computed_total",
		Help: "Number of credit score snapshots computed.",
	}, []string{"tenant", "band"})
)

// MetricsHandler returns the HTTP handler serving the /metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
