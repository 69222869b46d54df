// Package metrics exposes Prometheus instrumentation for evaluations.
//
// All methods are safe on a nil *Metrics, so callers that do not export
// metrics (tests, the one-shot check command) can pass nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vocabcheck"

// Evaluation outcomes used as label values
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeTaggerUnavailable = "tagger_unavailable"
)

// Capability names used as label values
const (
	CapabilityTagger     = "tagger"
	CapabilityClassifier = "classifier"
)

// Metrics holds the evaluation counters and histograms.
type Metrics struct {
	// EvaluationsTotal counts evaluations by outcome.
	// Labels: outcome (ok, validation, tagger_unavailable)
	EvaluationsTotal *prometheus.CounterVec

	// EvaluationSeconds measures end-to-end evaluation latency.
	// Labels: outcome
	EvaluationSeconds *prometheus.HistogramVec

	// CapabilityErrorsTotal counts degraded capability calls.
	// Labels: capability (tagger, classifier), reason (unavailable, error)
	CapabilityErrorsTotal *prometheus.CounterVec

	// CapabilityUp reports whether a capability loaded at startup (1) or not (0).
	// Labels: capability
	CapabilityUp *prometheus.GaugeVec

	// RateLimitedTotal counts requests rejected by the server rate limiter
	RateLimitedTotal prometheus.Counter
}

// New creates and registers all metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of evaluations by outcome",
			},
			[]string{"outcome"},
		),

		EvaluationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Evaluation latency in seconds, including capability calls",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),

		CapabilityErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capability_errors_total",
				Help:      "Capability calls that degraded the report, by capability and reason",
			},
			[]string{"capability", "reason"},
		),

		CapabilityUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "capability_up",
				Help:      "Whether the capability loaded successfully at startup",
			},
			[]string{"capability"},
		),

		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the per-client rate limiter",
			},
		),
	}
}

// ObserveEvaluation records one finished evaluation
func (m *Metrics) ObserveEvaluation(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(outcome).Inc()
	m.EvaluationSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// CapabilityError records a degraded capability call
func (m *Metrics) CapabilityError(capability, reason string) {
	if m == nil {
		return
	}
	m.CapabilityErrorsTotal.WithLabelValues(capability, reason).Inc()
}

// SetCapabilityUp records the startup state of a capability
func (m *Metrics) SetCapabilityUp(capability string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.CapabilityUp.WithLabelValues(capability).Set(v)
}

// RateLimited records a rejected request
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
