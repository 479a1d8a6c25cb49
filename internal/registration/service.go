package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tapclaim/internal/events"
	"tapclaim/internal/registration/metrics"
	"tapclaim/pkg/attrs"
	dErrors "tapclaim/pkg/domain-errors"
	"tapclaim/pkg/platform/middleware/metadata"
	"tapclaim/pkg/platform/sentinel"
	"tapclaim/pkg/requestcontext"
)

// Store is the persistence port for accepted registrations.
type Store interface {
	Insert(ctx context.Context, reg *Registration) error
	ListAll(ctx context.Context) ([]*Registration, error)
	Close() error
}

// EventPublisher announces accepted registrations. Implementations must not
// block the submit path.
type EventPublisher interface {
	Emit(ctx context.Context, ev events.Event)
}

// Service orchestrates submission intake: validate, persist, announce.
// It holds the single shared store handle; construct once in main and pass
// down.
type Service struct {
	store     Store
	validator *Validator
	logger    *slog.Logger
	publisher EventPublisher
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPublisher attaches the accepted-registration event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithMetrics attaches registration metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithVerifier replaces the default length-heuristic signature verifier.
func WithVerifier(v Verifier) Option {
	return func(s *Service) {
		s.validator = NewValidator(v)
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, validator: NewValidator(nil)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates a claim and persists it. Validation failures never reach
// the store. A duplicate address pair reports CodeConflict; any other store
// failure becomes an opaque internal error. There are no retries.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Registration, error) {
	start := time.Now()

	eth, rgb, err := s.validator.Validate(ctx, sub)
	if err != nil {
		s.metrics.IncrementRejected(string(dErrors.GetCode(err)))
		return nil, err
	}

	reg := &Registration{
		EthAddress: eth,
		RgbAddress: rgb,
		Signature:  sub.Signature,
		Message:    sub.Message,
	}
	if err := s.store.Insert(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementRejected(string(dErrors.CodeConflict))
			return nil, dErrors.New(dErrors.CodeConflict, "a registration already exists for this address pair")
		}
		s.metrics.IncrementRejected(string(dErrors.CodeInternal))
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	s.announce(ctx, reg)
	s.metrics.IncrementAccepted()
	s.metrics.ObserveSubmitDuration(time.Since(start))

	return reg, nil
}

// List returns all accepted registrations in ascending id order.
func (s *Service) List(ctx context.Context) ([]*Registration, error) {
	start := time.Now()

	regs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registrations")
	}

	s.metrics.ObserveListDuration(time.Since(start))
	return regs, nil
}

// Close releases the store. Call exactly once at shutdown.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) announce(ctx context.Context, reg *Registration) {
	attributes := []any{
		"registration_id", reg.ID,
		"eth_address", reg.EthAddress.String(),
		"rgb_address", reg.RgbAddress.String(),
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}

	args := append(attributes, "event", events.TypeRegistrationAccepted, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, "registration accepted", args...)
	}

	if s.publisher == nil {
		return
	}
	s.publisher.Emit(ctx, events.Event{
		RegistrationID: reg.ID,
		EthAddress:     attrs.ExtractString(attributes, "eth_address"),
		RgbAddress:     attrs.ExtractString(attributes, "rgb_address"),
		RequestID:      attrs.ExtractString(attributes, "request_id"),
		Client:         metadata.ClientSummary(ctx),
		AcceptedAt:     reg.CreatedAt,
	})
}
