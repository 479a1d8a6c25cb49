// Package handler exposes the registration HTTP API.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tapclaim/internal/platform/metrics"
	"tapclaim/internal/platform/middleware"
	"tapclaim/internal/registration"
	dErrors "tapclaim/pkg/domain-errors"
	"tapclaim/pkg/platform/httputil"
	"tapclaim/pkg/platform/middleware/metadata"
	"tapclaim/pkg/platform/middleware/requesttime"
)

// Service defines the registration operations the handler exposes.
type Service interface {
	Submit(ctx context.Context, sub registration.Submission) (*registration.Registration, error)
	List(ctx context.Context) ([]*registration.Registration, error)
}

// Handler wires the registration endpoints to the service.
type Handler struct {
	service   Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	rateLimit func(http.Handler) http.Handler
	timeout   time.Duration
}

// Option configures optional handler dependencies.
type Option func(*Handler)

// WithMetrics enables request count and latency recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithRateLimit guards POST /submit with the given middleware.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) { h.rateLimit = mw }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// New constructs a registration Handler.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registration routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(h.timeout))
	router.Use(middleware.Tracing)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/ping", h.handlePing)
	router.Get("/registrations", h.handleListRegistrations)

	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		if h.rateLimit != nil {
			r.Use(h.rateLimit)
		}
		r.Post("/submit", h.handleSubmit)
	})

	r.Mount("/", router)
}

// handlePing answers health probes and keepalive traffic.
func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// handleSubmit handles POST /submit requests.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reg, err := h.service.Submit(ctx, req.Submission())
	if err != nil {
		h.writeSubmitError(ctx, w, requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "registration accepted",
		"request_id", requestID,
		"registration_id", reg.ID,
		"client", metadata.ClientSummary(ctx),
		"duration_ms", time.Since(start).Milliseconds())

	httputil.WriteJSON(w, http.StatusOK, FromRegistration(reg))
}

// handleListRegistrations handles GET /registrations requests.
func (h *Handler) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	regs, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list registrations",
			"request_id", requestID,
			"error", err.Error())
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list registrations"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRegistrations(regs))
}

// writeSubmitError logs and writes a submit failure. Client-caused rejections
// keep their description; anything else is reported as an opaque internal
// error.
func (h *Handler) writeSubmitError(ctx context.Context, w http.ResponseWriter, requestID string, err error) {
	code := dErrors.GetCode(err)
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeUnauthorized, dErrors.CodeConflict:
		h.logger.WarnContext(ctx, "submission rejected",
			"request_id", requestID,
			"code", string(code),
			"client", metadata.ClientSummary(ctx),
			"error", err.Error())
		httputil.WriteError(w, err)
	default:
		h.logger.ErrorContext(ctx, "failed to process submission",
			"request_id", requestID,
			"error", err.Error())
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to process submission"))
	}
}
