package main

import (
	"context"
	"log/slog"
	"net/http"

	"tapclaim/internal/events"
	eventmetrics "tapclaim/internal/events/metrics"
	"tapclaim/internal/platform/config"
	"tapclaim/internal/platform/redis"
	"tapclaim/internal/ratelimit"
	ratelimitmetrics "tapclaim/internal/ratelimit/metrics"
	ratelimitmw "tapclaim/internal/ratelimit/middleware"
	"tapclaim/internal/ratelimit/store/bucket"
	"tapclaim/internal/registration"
	registrationstore "tapclaim/internal/registration/store/registration"
)

// openStore selects the registration store: Postgres when DATABASE_URL is
// set, otherwise the in-memory store for zero-config runs.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (registration.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("no DATABASE_URL configured, using in-memory registration store")
		return registrationstore.NewInMemory(), nil
	}

	store, err := registrationstore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres registration store")
	return store, nil
}

// buildEvents assembles the registration event pipeline. Without brokers
// configured, events are counted and discarded at a noop sink, so the
// pipeline stays observable in every deployment.
func buildEvents(ctx context.Context, cfg config.Config, log *slog.Logger) (*events.Publisher, *events.Worker, func(), error) {
	m := eventmetrics.New()
	publisher := events.NewPublisher(cfg.Kafka.BufferSize,
		events.WithPublisherLogger(log),
		events.WithPublisherMetrics(m),
	)

	var sink events.Sink = events.NoopSink{}
	closeSink := func() {}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("kafka sink connected", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		sink = kafkaSink
		closeSink = kafkaSink.Close
	}

	worker := events.NewWorker(sink, publisher.Events(),
		events.WithWorkerLogger(log),
		events.WithWorkerMetrics(m),
	)
	return publisher, worker, closeSink, nil
}

// buildRateLimit assembles the submit limiter middleware. Redis backs the
// shared window when configured; otherwise each instance enforces its own
// in-memory window. Requests <= 0 disables limiting.
func buildRateLimit(cfg config.Config, redisClient *redis.Client, log *slog.Logger) func(http.Handler) http.Handler {
	var primary ratelimit.BucketStore
	if redisClient != nil {
		primary = bucket.NewRedis(redisClient.Client)
	}

	limiter := ratelimit.New(primary, cfg.RateLimit.Requests, cfg.RateLimit.Window,
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
	)

	mw := ratelimitmw.New(limiter, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Requests <= 0),
	)
	return mw.Limit
}
