package events

import (
	"context"
	"log/slog"

	"tapclaim/internal/events/metrics"
)

// Sink receives events drained from the publisher buffer.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// NoopSink discards every event. Used when no brokers are configured.
type NoopSink struct{}

// Publish implements Sink.
func (NoopSink) Publish(context.Context, Event) error { return nil }

// Worker drains the publisher buffer into the sink. Delivery failures are
// logged and counted, never fatal: the worker keeps draining.
type Worker struct {
	sink    Sink
	inbox   <-chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerLogger attaches a logger for delivery failures.
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithWorkerMetrics attaches pipeline metrics.
func WithWorkerMetrics(m *metrics.Metrics) WorkerOption {
	return func(w *Worker) {
		w.metrics = m
	}
}

// NewWorker creates a Worker reading from inbox.
func NewWorker(sink Sink, inbox <-chan Event, opts ...WorkerOption) *Worker {
	w := &Worker{sink: sink, inbox: inbox}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the inbox until the context is cancelled or the inbox closes.
// A closed inbox returns nil so graceful shutdown can flush pending events.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.deliver(ctx, ev)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, ev Event) {
	if err := w.sink.Publish(ctx, ev); err != nil {
		w.metrics.IncrementPublishFailures()
		if w.logger != nil {
			w.logger.ErrorContext(ctx, "failed to publish event",
				"error", err,
				"event_id", ev.ID,
				"registration_id", ev.RegistrationID)
		}
		return
	}
	w.metrics.IncrementPublished()
}
