// Package metrics exposes Prometheus instrumentation for the decision
// engine: outcome counts by reason, evaluation latency, and the size of
// approved offers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	decisionsTotal          *prometheus.CounterVec
	evaluateDurationSeconds prometheus.Histogram
	approvedAmountEuros     prometheus.Histogram
	approvedPeriodMonths    prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		decisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "decisio_decision_outcomes_total",
			Help: "Total number of loan decisions by outcome and rejection reason.",
		}, []string{"outcome", "reason"}),
		evaluateDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "decisio_decision_evaluate_duration_seconds",
			Help:    "Wall-clock duration of a full decision evaluation.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		approvedAmountEuros: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "decisio_decision_approved_amount_euros",
			Help:    "Distribution of approved loan amounts.",
			Buckets: []float64{2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000, 10000},
		}),
		approvedPeriodMonths: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "decisio_decision_approved_period_months",
			Help:    "Distribution of approved loan periods.",
			Buckets: []float64{12, 18, 24, 30, 36, 42, 48, 54, 60},
		}),
	}
}

// IncrementOutcome records a finished decision. Approved decisions carry an
// empty reason label.
func (m *Metrics) IncrementOutcome(outcome, reason string) {
	m.decisionsTotal.WithLabelValues(outcome, reason).Inc()
}

func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	m.evaluateDurationSeconds.Observe(d.Seconds())
}

// RecordApproval tracks the shape of an approved offer.
func (m *Metrics) RecordApproval(amount, periodMonths int) {
	m.approvedAmountEuros.Observe(float64(amount))
	m.approvedPeriodMonths.Observe(float64(periodMonths))
}
