// Package config builds the process-wide configuration: one immutable value
// constructed at startup from the environment and passed explicitly to each
// component. Nothing reads the environment after FromEnv returns.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fraudgate/internal/fusion"
	"fraudgate/internal/rules"
	stringsutil "fraudgate/pkg/platform/strings"
)

// FailPolicy selects the degraded-mode behavior when the velocity store is
// unreachable or times out.
type FailPolicy string

const (
	// FailOpen proceeds with empty history; rules and scorers still run.
	FailOpen FailPolicy = "open"
	// FailClosed escalates the verdict to at least FLAG.
	FailClosed FailPolicy = "closed"
)

// RedisConfig holds connection settings for the velocity backing store.
// An empty URL selects the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the decision log.
// An empty DSN selects the in-memory ring store.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig holds the decision stream settings. No brokers disables
// publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ScorerConfig points at the model serving endpoints. Empty URLs select the
// built-in heuristic scorers. Remote scorers sit behind a circuit breaker.
type ScorerConfig struct {
	RiskURL    string
	AnomalyURL string

	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Config is the full engine configuration, immutable for the process lifetime.
type Config struct {
	Addr          string
	JWTSigningKey string

	// Window is the velocity retention window.
	Window time.Duration

	// StoreTimeout bounds velocity store calls; ScorerTimeout bounds each
	// model call.
	StoreTimeout  time.Duration
	ScorerTimeout time.Duration

	// VelocityFailPolicy is the explicit degraded-mode choice for velocity
	// store failures.
	VelocityFailPolicy FailPolicy

	// ReplayTTL is how long a computed verdict stays replayable for duplicate
	// (user_id, transaction_id) submissions.
	ReplayTTL time.Duration

	// LogBuffer sizes the decision log inbox.
	LogBuffer int

	// RateLimit caps decision requests per client per RateLimitWindow.
	// Zero disables limiting.
	RateLimit       int
	RateLimitWindow time.Duration

	Rules  rules.Config
	Fusion fusion.Thresholds

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Scorers  ScorerConfig
}

// FromEnv builds the configuration from FRAUDGATE_* variables so main stays
// lean. Every value has a default suitable for local development.
func FromEnv() Config {
	return Config{
		Addr:          envStr("FRAUDGATE_ADDR", ":8080"),
		JWTSigningKey: envStr("FRAUDGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		Window:        envDuration("FRAUDGATE_WINDOW", 10*time.Minute),
		StoreTimeout:  envDuration("FRAUDGATE_STORE_TIMEOUT", 250*time.Millisecond),
		ScorerTimeout: envDuration("FRAUDGATE_SCORER_TIMEOUT", 400*time.Millisecond),

		VelocityFailPolicy: failPolicy(envStr("FRAUDGATE_VELOCITY_FAIL_POLICY", string(FailOpen))),

		ReplayTTL: envDuration("FRAUDGATE_REPLAY_TTL", 10*time.Minute),
		LogBuffer: envInt("FRAUDGATE_LOG_BUFFER", 256),

		RateLimit:       envInt("FRAUDGATE_RATE_LIMIT", 0),
		RateLimitWindow: envDuration("FRAUDGATE_RATE_LIMIT_WINDOW", time.Minute),

		Rules: rules.Config{
			VelocityThreshold:     envInt("FRAUDGATE_VELOCITY_THRESHOLD", 5),
			GeoEnabled:            envBool("FRAUDGATE_GEO_ENABLED", true),
			AmountZScoreThreshold: envFloat("FRAUDGATE_AMOUNT_ZSCORE_THRESHOLD", 3.0),
			NightStartHour:        envInt("FRAUDGATE_NIGHT_START_HOUR", 0),
			NightEndHour:          envInt("FRAUDGATE_NIGHT_END_HOUR", 4),
		},
		Fusion: fusion.Thresholds{
			Block:   envFloat("FRAUDGATE_BLOCK_THRESHOLD", 0.85),
			Flag:    envFloat("FRAUDGATE_FLAG_THRESHOLD", 0.5),
			Anomaly: envFloat("FRAUDGATE_ANOMALY_THRESHOLD", 0.7),
		},

		Redis: RedisConfig{
			URL:          envStr("FRAUDGATE_REDIS_URL", ""),
			PoolSize:     envInt("FRAUDGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("FRAUDGATE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("FRAUDGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("FRAUDGATE_REDIS_READ_TIMEOUT", 250*time.Millisecond),
			WriteTimeout: envDuration("FRAUDGATE_REDIS_WRITE_TIMEOUT", 250*time.Millisecond),
		},
		Postgres: PostgresConfig{
			DSN: envStr("FRAUDGATE_POSTGRES_DSN", ""),
		},
		Kafka: KafkaConfig{
			Brokers: envList("FRAUDGATE_KAFKA_BROKERS"),
			Topic:   envStr("FRAUDGATE_KAFKA_TOPIC", "fraudgate.decisions"),
		},
		Scorers: ScorerConfig{
			RiskURL:          envStr("FRAUDGATE_RISK_SCORER_URL", ""),
			AnomalyURL:       envStr("FRAUDGATE_ANOMALY_SCORER_URL", ""),
			BreakerThreshold: envInt("FRAUDGATE_SCORER_BREAKER_THRESHOLD", 5),
			BreakerCooldown:  envDuration("FRAUDGATE_SCORER_BREAKER_COOLDOWN", 30*time.Second),
		},
	}
}

func failPolicy(s string) FailPolicy {
	if FailPolicy(s) == FailClosed {
		return FailClosed
	}
	return FailOpen
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return stringsutil.DedupeAndTrim(strings.Split(v, ","))
}
