package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"tapclaim/internal/ratelimit/models"
	"tapclaim/pkg/platform/httputil"
	"tapclaim/pkg/platform/middleware/metadata"
	"tapclaim/pkg/platform/privacy"
)

// Limiter is the check the middleware runs per request.
type Limiter interface {
	Check(ctx context.Context, ip string) (*models.Result, error)
}

// Middleware enforces the per-IP submit limit. Limiter errors fail open;
// an unavailable limiter must not take the intake path down with it.
type Middleware struct {
	limiter  Limiter
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns the middleware into a passthrough.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(limiter Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled && m.logger != nil {
		m.logger.Info("rate limiting disabled")
	}
	return m
}

// Limit wraps next with the rate limit check for the caller's IP.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := metadata.GetClientIP(ctx)

		result, err := m.limiter.Check(ctx, ip)
		if err != nil {
			if m.logger != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed", "error", err, "ip_prefix", privacy.AnonymizeIP(ip))
			}
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)

		if !result.Allowed {
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}

type exceededResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	RetryAfter       int    `json:"retry_after"`
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &exceededResponse{
		Error:            "rate_limit_exceeded",
		ErrorDescription: "Too many submissions from this address. Please try again later.",
		RetryAfter:       result.RetryAfter,
	})
}
