// Package ratelimit guards the submit path against bursts from a single
// client. Checks run against Redis when configured so limits hold across
// instances; a circuit breaker degrades to per-instance memory counters
// when Redis misbehaves, and limiter failures never block a request.
package ratelimit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"tapclaim/internal/ratelimit/metrics"
	"tapclaim/internal/ratelimit/models"
	"tapclaim/internal/ratelimit/store/bucket"
	"tapclaim/pkg/platform/circuit"
)

// BucketStore counts requests against a keyed window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// probeInterval is how many open-circuit checks pass between probes of the
// primary store.
const probeInterval = 10

// Service answers submit rate limit checks.
type Service struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	probes   atomic.Int64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches limiter metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New builds a limiter allowing limit requests per window per key.
// primary may be nil, in which case every check runs against the
// in-memory store and there is no degraded mode.
func New(primary BucketStore, limit int, window time.Duration, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		fallback: bucket.NewInMemory(),
		limit:    limit,
		window:   window,
	}
	if primary != nil {
		s.breaker = circuit.New("ratelimit-primary")
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check consumes one slot for the client IP and reports the outcome.
func (s *Service) Check(ctx context.Context, ip string) (*models.Result, error) {
	res, err := s.allow(ctx, models.KeyForIP(ip))
	if err != nil {
		s.metrics.IncrementErrors()
		return nil, err
	}

	if res.Allowed {
		s.metrics.IncrementAllowed()
	} else {
		s.metrics.IncrementLimited()
	}
	return res, nil
}

func (s *Service) allow(ctx context.Context, key string) (*models.Result, error) {
	if s.primary == nil {
		return s.fallback.Allow(ctx, key, s.limit, s.window)
	}

	// While open, only every probeInterval-th check pays the primary's
	// latency; the rest go straight to memory.
	if s.breaker.IsOpen() && s.probes.Add(1)%probeInterval != 0 {
		return s.degraded(ctx, key)
	}

	res, err := s.primary.Allow(ctx, key, s.limit, s.window)
	if err != nil {
		_, change := s.breaker.RecordFailure()
		if change.Opened {
			s.log(ctx, slog.LevelError, "rate limit store failing, switching to in-memory fallback", "error", err)
			s.metrics.IncrementFallbackActivations()
			s.metrics.SetDegraded(true)
		} else {
			s.log(ctx, slog.LevelWarn, "rate limit store check failed", "error", err)
		}
		return s.degraded(ctx, key)
	}

	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.log(ctx, slog.LevelInfo, "rate limit store recovered")
		s.metrics.SetDegraded(false)
	}
	if !usePrimary {
		// A probe succeeded but the circuit is still open. Serve memory
		// counts until it closes so clients see one coherent window.
		return s.degraded(ctx, key)
	}
	return res, nil
}

func (s *Service) degraded(ctx context.Context, key string) (*models.Result, error) {
	res, err := s.fallback.Allow(ctx, key, s.limit, s.window)
	if err != nil {
		return nil, err
	}
	res.Degraded = true
	return res, nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(ctx, level, msg, args...)
	}
}
