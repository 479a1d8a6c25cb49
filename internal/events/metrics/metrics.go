package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the events pipeline.
type Metrics struct {
	// Events handed to the publisher and accepted into the buffer
	Enqueued prometheus.Counter

	// Events dropped because the buffer was full
	Dropped prometheus.Counter

	// Events delivered to the sink
	Published prometheus.Counter

	// Sink delivery failures
	PublishFailures prometheus.Counter
}

// New creates a new Metrics instance with all events metrics registered.
func New() *Metrics {
	return &Metrics{
		Enqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapclaim_events_enqueued_total",
			Help: "Total events accepted into the publish buffer",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapclaim_events_dropped_total",
			Help: "Total events dropped because the publish buffer was full",
		}),
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapclaim_events_published_total",
			Help: "Total events delivered to the sink",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapclaim_events_publish_failures_total",
			Help: "Total sink delivery failures",
		}),
	}
}

// IncrementEnqueued records an event accepted into the buffer.
func (m *Metrics) IncrementEnqueued() {
	if m != nil {
		m.Enqueued.Inc()
	}
}

// IncrementDropped records an event dropped at a full buffer.
func (m *Metrics) IncrementDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

// IncrementPublished records a successful sink delivery.
func (m *Metrics) IncrementPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

// IncrementPublishFailures records a failed sink delivery.
func (m *Metrics) IncrementPublishFailures() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
