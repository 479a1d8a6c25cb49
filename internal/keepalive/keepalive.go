// Package keepalive stops free-tier hosting from idling the service out by
// requesting its own ping endpoint on an interval.
package keepalive

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds a single ping; the interval is minutes, so a slow
// ping is as useless as a failed one.
const requestTimeout = 10 * time.Second

// Pinger periodically GETs origin + "/ping". Failures are logged and the
// loop keeps going; a missed ping must never take the service down.
type Pinger struct {
	origin   string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Pinger.
type Option func(*Pinger)

// WithClient replaces the default HTTP client.
func WithClient(client *http.Client) Option {
	return func(p *Pinger) {
		p.client = client
	}
}

// New builds a Pinger for origin, e.g. "https://claim.example.com".
func New(origin string, interval time.Duration, logger *slog.Logger, opts ...Option) *Pinger {
	p := &Pinger{
		origin:   strings.TrimRight(origin, "/"),
		interval: interval,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   logger,
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run pings until ctx is cancelled and returns ctx.Err().
func (p *Pinger) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "keepalive started", "origin", p.origin, "interval", p.interval.String())

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.ping(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.origin+"/ping", nil)
	if err != nil {
		p.logger.WarnContext(ctx, "keepalive request build failed", "error", err)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WarnContext(ctx, "keepalive ping failed", "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		p.logger.WarnContext(ctx, "keepalive ping returned unexpected status", "status", resp.StatusCode)
		return
	}

	p.logger.DebugContext(ctx, "keepalive ping ok")
}
