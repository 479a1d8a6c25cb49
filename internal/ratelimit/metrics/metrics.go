package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksTotal         *prometheus.CounterVec
	FallbackActivations prometheus.Counter
	Degraded            prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tapclaim_ratelimit_checks_total",
			Help: "Total rate limit checks by outcome",
		}, []string{"outcome"}),
		FallbackActivations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapclaim_ratelimit_fallback_activations_total",
			Help: "Times the limiter switched to the in-memory fallback",
		}),
		Degraded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "tapclaim_ratelimit_degraded",
			Help: "1 while checks are served by the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementAllowed() {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues("allowed").Inc()
}

func (m *Metrics) IncrementLimited() {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues("limited").Inc()
}

func (m *Metrics) IncrementErrors() {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues("error").Inc()
}

func (m *Metrics) IncrementFallbackActivations() {
	if m == nil {
		return
	}
	m.FallbackActivations.Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
	} else {
		m.Degraded.Set(0)
	}
}
