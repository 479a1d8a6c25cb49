package events

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"tapclaim/internal/events/metrics"
	"tapclaim/pkg/requestcontext"
)

const defaultBufferSize = 256

// Publisher buffers events for background delivery. Emit never blocks: when
// the buffer is full the event is dropped and counted.
type Publisher struct {
	ch      chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
	dropped atomic.Int64
	closed  atomic.Bool
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger attaches a logger for drop warnings.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPublisherMetrics attaches pipeline metrics.
func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// NewPublisher creates a Publisher with the given buffer capacity.
// A capacity <= 0 selects the default.
func NewPublisher(buffer int, opts ...PublisherOption) *Publisher {
	if buffer <= 0 {
		buffer = defaultBufferSize
	}
	p := &Publisher{ch: make(chan Event, buffer)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit normalizes ev and enqueues it for delivery. Missing identity fields
// are filled here: ID, Type, PairDigest, AcceptedAt.
func (p *Publisher) Emit(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Type == "" {
		ev.Type = TypeRegistrationAccepted
	}
	if ev.PairDigest == "" {
		ev.PairDigest = PairDigest(ev.EthAddress, ev.RgbAddress)
	}
	if ev.AcceptedAt.IsZero() {
		ev.AcceptedAt = requestcontext.Now(ctx)
	}

	if p.closed.Load() {
		return
	}

	select {
	case p.ch <- ev:
		p.metrics.IncrementEnqueued()
	default:
		p.dropped.Add(1)
		p.metrics.IncrementDropped()
		if p.logger != nil {
			p.logger.WarnContext(ctx, "event buffer full, dropping event",
				"event_id", ev.ID,
				"registration_id", ev.RegistrationID)
		}
	}
}

// Events exposes the worker's inbox.
func (p *Publisher) Events() <-chan Event {
	return p.ch
}

// Dropped reports how many events were discarded at a full buffer.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops accepting events and lets the worker drain the remainder.
// Safe to call once, after all Emit callers have stopped.
func (p *Publisher) Close() {
	if p.closed.CompareAndSwap(false, true) {
		close(p.ch)
	}
}
