package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tapclaim/internal/ratelimit/models"
	"tapclaim/pkg/requestcontext"
)

type stubLimiter struct {
	result *models.Result
	err    error
	calls  int
	lastIP string
}

func (s *stubLimiter) Check(_ context.Context, ip string) (*models.Result, error) {
	s.calls++
	s.lastIP = ip
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(m *Middleware) (*httptest.ResponseRecorder, bool) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	ctx := requestcontext.WithClientMetadata(req.Context(), "203.0.113.9", "test-agent")
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	m.Limit(next).ServeHTTP(w, req)
	return w, nextCalled
}

func TestLimit_Allowed(t *testing.T) {
	resetAt := time.Unix(1770000000, 0)
	limiter := &stubLimiter{result: &models.Result{
		Allowed:   true,
		Limit:     30,
		Remaining: 29,
		ResetAt:   resetAt,
	}}
	m := New(limiter, discardLogger())

	w, nextCalled := doRequest(m)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "203.0.113.9", limiter.lastIP)
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "29", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1770000000", w.Header().Get("X-RateLimit-Reset"))
	assert.Empty(t, w.Header().Get("X-RateLimit-Status"))
}

func TestLimit_Denied(t *testing.T) {
	limiter := &stubLimiter{result: &models.Result{
		Allowed:    false,
		Limit:      30,
		Remaining:  0,
		ResetAt:    time.Now().Add(45 * time.Second),
		RetryAfter: 45,
	}}
	m := New(limiter, discardLogger())

	w, nextCalled := doRequest(m)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "45", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.JSONEq(t,
		`{"error":"rate_limit_exceeded","error_description":"Too many submissions from this address. Please try again later.","retry_after":45}`,
		w.Body.String())
}

func TestLimit_FailsOpenOnLimiterError(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("limiter unavailable")}
	m := New(limiter, discardLogger())

	w, nextCalled := doRequest(m)

	assert.True(t, nextCalled, "limiter failures must not block requests")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestLimit_Disabled(t *testing.T) {
	limiter := &stubLimiter{result: &models.Result{Allowed: false}}
	m := New(limiter, discardLogger(), WithDisabled(true))

	w, nextCalled := doRequest(m)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limiter.calls, "disabled middleware never consults the limiter")
}

func TestLimit_DegradedHeader(t *testing.T) {
	limiter := &stubLimiter{result: &models.Result{
		Allowed:   true,
		Limit:     30,
		Remaining: 10,
		ResetAt:   time.Now().Add(time.Minute),
		Degraded:  true,
	}}
	m := New(limiter, discardLogger())

	w, nextCalled := doRequest(m)

	assert.True(t, nextCalled)
	assert.Equal(t, "degraded", w.Header().Get("X-RateLimit-Status"))
}
