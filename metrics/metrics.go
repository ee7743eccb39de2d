// Package metrics exposes Prometheus instruments for the risk engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trading_journal"

// Recorder groups the engine's instruments. A nil *Recorder is a no-op, so
// callers that do not care about metrics can pass nil.
type Recorder struct {
	sizings       *prometheus.CounterVec
	verdicts      *prometheus.CounterVec
	violations    *prometheus.CounterVec
	events        *prometheus.CounterVec
	conflicts     prometheus.Counter
	multipliers   prometheus.Histogram
	lossLimitUsed *prometheus.GaugeVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		sizings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "position_sizings_total",
			Help:      "Position size computations by validity.",
		}, []string{"valid"}),
		verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_verdicts_total",
			Help:      "Pre-trade verdicts by outcome.",
		}, []string{"outcome"}),
		violations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_violations_total",
			Help:      "Rule violations by code.",
		}, []string{"code"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_events_total",
			Help:      "Risk events appended by type.",
		}, []string{"type"}),
		conflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_conflicts_total",
			Help:      "Daily snapshot writes rejected by the version check.",
		}),
		multipliers: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_multiplier",
			Help:      "Unified position size multiplier.",
			Buckets:   []float64{0.25, 0.5, 0.7, 0.85, 1.0},
		}),
		lossLimitUsed: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loss_limit_used_percent",
			Help:      "Daily loss limit usage per user.",
		}, []string{"user"}),
	}
}

func (r *Recorder) Sizing(valid bool) {
	if r == nil {
		return
	}
	if valid {
		r.sizings.WithLabelValues("true").Inc()
		return
	}
	r.sizings.WithLabelValues("false").Inc()
}

func (r *Recorder) Verdict(allowed bool) {
	if r == nil {
		return
	}
	if allowed {
		r.verdicts.WithLabelValues("allowed").Inc()
		return
	}
	r.verdicts.WithLabelValues("blocked").Inc()
}

func (r *Recorder) Violation(code string) {
	if r == nil {
		return
	}
	r.violations.WithLabelValues(code).Inc()
}

func (r *Recorder) Event(eventType string) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(eventType).Inc()
}

func (r *Recorder) Conflict() {
	if r == nil {
		return
	}
	r.conflicts.Inc()
}

func (r *Recorder) Multiplier(m float64) {
	if r == nil {
		return
	}
	r.multipliers.Observe(m)
}

func (r *Recorder) LossLimitUsed(user string, pct float64) {
	if r == nil {
		return
	}
	r.lossLimitUsed.WithLabelValues(user).Set(pct)
}
