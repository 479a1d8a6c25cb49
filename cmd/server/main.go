// Command server runs the tapclaim registration service: an HTTP API that
// binds EVM addresses to Taproot addresses for token claims.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"tapclaim/internal/keepalive"
	"tapclaim/internal/platform/config"
	"tapclaim/internal/platform/httpserver"
	"tapclaim/internal/platform/logger"
	platmetrics "tapclaim/internal/platform/metrics"
	"tapclaim/internal/platform/redis"
	"tapclaim/internal/registration"
	"tapclaim/internal/registration/handler"
	registrationmetrics "tapclaim/internal/registration/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires dependencies and drives the server lifecycle. Returning an error
// instead of exiting directly lets deferred cleanups fire on the way out.
func run() error {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open registration store: %w", err)
	}
	defer store.Close()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, worker, closeSink, err := buildEvents(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build event pipeline: %w", err)
	}
	defer closeSink()

	service := registration.New(store,
		registration.WithLogger(log),
		registration.WithPublisher(publisher),
		registration.WithMetrics(registrationmetrics.New()),
	)

	h := handler.New(service, log,
		handler.WithMetrics(platmetrics.New()),
		handler.WithRateLimit(buildRateLimit(cfg, redisClient, log)),
		handler.WithTimeout(cfg.RequestTimeout),
	)

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	// The worker gets its own context so it can flush queued events after
	// the listener has stopped accepting traffic.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("event worker: %w", err)
		}
		return nil
	})

	if cfg.Keepalive.Origin != "" {
		pinger := keepalive.New(cfg.Keepalive.Origin, cfg.Keepalive.Interval, log)
		g.Go(func() error {
			if err := pinger.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("keepalive: %w", err)
			}
			return nil
		})
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}

	// No new submissions can arrive now. Close the inbox so the worker
	// delivers what is queued; if the sink hangs, cut the worker loose when
	// the shutdown window expires.
	publisher.Close()
	go func() {
		<-shutdownCtx.Done()
		stopWorker()
	}()

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}
