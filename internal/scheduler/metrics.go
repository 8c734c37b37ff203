package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments remote actions. A nil *Metrics records nothing.
type Metrics struct {
	actions  *prometheus.CounterVec
	cooldown *prometheus.HistogramVec
	waiting  prometheus.Gauge
}

// NewMetrics registers the scheduler collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapwalker",
			Subsystem: "scheduler",
			Name:      "actions_total",
			Help:      "Remote actions executed, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		cooldown: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mapwalker",
			Subsystem: "scheduler",
			Name:      "cooldown_seconds",
			Help:      "Cooldown reported by the server after each successful action.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"kind"}),
		waiting: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapwalker",
			Subsystem: "scheduler",
			Name:      "queued_actions",
			Help:      "Callers waiting for the single action slot.",
		}),
	}
}

func (m *Metrics) succeeded(kind string, cooldown time.Duration) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind, "ok").Inc()
	m.cooldown.WithLabelValues(kind).Observe(cooldown.Seconds())
}

func (m *Metrics) failed(kind string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind, "error").Inc()
}

func (m *Metrics) queued(delta float64) {
	if m == nil {
		return
	}
	m.waiting.Add(delta)
}
