package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "tapclaim/pkg/platform/strings"
)

// Config captures everything the server reads from the environment.
// Empty infrastructure URLs select in-process fallbacks: no DATABASE_URL means
// the in-memory store, no REDIS_URL means the in-memory limiter window, no
// KAFKA_BROKERS means events are dropped at the sink.
type Config struct {
	Addr     string
	LogLevel string

	DatabaseURL string

	Redis     RedisConfig
	Kafka     KafkaConfig
	Keepalive KeepaliveConfig
	RateLimit RateLimitConfig

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig holds connection settings for the rate-limit window store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the registration-events publisher.
type KafkaConfig struct {
	Brokers    []string
	Topic      string
	BufferSize int
}

// KeepaliveConfig holds settings for the self-ping loop. Origin is the
// externally reachable base URL of this deployment; empty disables the loop.
type KeepaliveConfig struct {
	Origin   string
	Interval time.Duration
}

// RateLimitConfig holds the submit-endpoint limiter knobs.
// Requests <= 0 disables rate limiting entirely.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("TAPCLAIM_ADDR")
	if addr == "" {
		// Hosting platforms hand out the listen port via PORT.
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	return Config{
		Addr:        addr,
		LogLevel:    envString("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    brokerList(os.Getenv("KAFKA_BROKERS")),
			Topic:      envString("KAFKA_TOPIC", "registration.accepted"),
			BufferSize: envInt("EVENT_BUFFER_SIZE", 256),
		},
		Keepalive: KeepaliveConfig{
			Origin:   os.Getenv("KEEPALIVE_ORIGIN"),
			Interval: envDuration("KEEPALIVE_INTERVAL", 14*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Requests: envInt("SUBMIT_RATE_LIMIT", 30),
			Window:   envDuration("SUBMIT_RATE_WINDOW", time.Minute),
		},
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 15*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func brokerList(s string) []string {
	if s == "" {
		return nil
	}
	return pstrings.DedupeAndTrim(strings.Split(s, ","))
}
