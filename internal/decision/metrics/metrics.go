package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision module. All methods are
// nil-safe so tests can pass a nil receiver.
type Metrics struct {
	// Verdicts by action
	Decisions *prometheus.CounterVec

	// Rule hits by rule name
	RuleHits *prometheus.CounterVec

	// Degraded signal sources (velocity_store, risk_scorer, anomaly_scorer)
	Degraded *prometheus.CounterVec

	// Duplicate submissions served from the replay cache
	Replays prometheus.Counter

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Velocity store round-trip latency
	VelocityLatency prometheus.Histogram
}

// New creates a new Metrics instance with all decision module metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_decisions_total",
			Help: "Total verdicts issued by action",
		}, []string{"action"}),

		RuleHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_rule_hits_total",
			Help: "Total rule hits by rule name",
		}, []string{"rule"}),

		Degraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudgate_degraded_signals_total",
			Help: "Total verdicts produced with a signal source unavailable",
		}, []string{"source"}),

		Replays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudgate_replays_total",
			Help: "Total duplicate submissions served from the replay cache",
		}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudgate_evaluate_duration_seconds",
			Help:    "Duration of full decision evaluation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		VelocityLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudgate_velocity_duration_seconds",
			Help:    "Duration of velocity store record-and-fetch calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

// IncrementDecision records an issued verdict.
func (m *Metrics) IncrementDecision(action string) {
	if m != nil {
		m.Decisions.WithLabelValues(action).Inc()
	}
}

// IncrementRuleHit records a rule firing.
func (m *Metrics) IncrementRuleHit(rule string) {
	if m != nil {
		m.RuleHits.WithLabelValues(rule).Inc()
	}
}

// IncrementDegraded records a verdict produced without the named signal.
func (m *Metrics) IncrementDegraded(source string) {
	if m != nil {
		m.Degraded.WithLabelValues(source).Inc()
	}
}

// IncrementReplay records a duplicate submission served from cache.
func (m *Metrics) IncrementReplay() {
	if m != nil {
		m.Replays.Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveVelocityLatency records one velocity store round trip.
func (m *Metrics) ObserveVelocityLatency(d time.Duration) {
	if m != nil {
		m.VelocityLatency.Observe(d.Seconds())
	}
}
