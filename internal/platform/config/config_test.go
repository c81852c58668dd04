package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Window)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 400*time.Millisecond, cfg.ScorerTimeout)
	assert.Equal(t, FailOpen, cfg.VelocityFailPolicy)

	assert.Equal(t, 5, cfg.Rules.VelocityThreshold)
	assert.True(t, cfg.Rules.GeoEnabled)
	assert.Equal(t, 3.0, cfg.Rules.AmountZScoreThreshold)
	assert.Equal(t, 0, cfg.Rules.NightStartHour)
	assert.Equal(t, 4, cfg.Rules.NightEndHour)

	assert.Equal(t, 0.85, cfg.Fusion.Block)
	assert.Equal(t, 0.5, cfg.Fusion.Flag)
	assert.Equal(t, 0.7, cfg.Fusion.Anomaly)

	assert.Equal(t, 0, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.Scorers.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.Scorers.BreakerCooldown)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("FRAUDGATE_ADDR", ":9999")
	t.Setenv("FRAUDGATE_WINDOW", "5m")
	t.Setenv("FRAUDGATE_VELOCITY_THRESHOLD", "3")
	t.Setenv("FRAUDGATE_GEO_ENABLED", "false")
	t.Setenv("FRAUDGATE_BLOCK_THRESHOLD", "0.92")
	t.Setenv("FRAUDGATE_VELOCITY_FAIL_POLICY", "closed")
	t.Setenv("FRAUDGATE_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Window)
	assert.Equal(t, 3, cfg.Rules.VelocityThreshold)
	assert.False(t, cfg.Rules.GeoEnabled)
	assert.Equal(t, 0.92, cfg.Fusion.Block)
	assert.Equal(t, FailClosed, cfg.VelocityFailPolicy)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("FRAUDGATE_WINDOW", "not-a-duration")
	t.Setenv("FRAUDGATE_VELOCITY_THRESHOLD", "many")
	t.Setenv("FRAUDGATE_VELOCITY_FAIL_POLICY", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Minute, cfg.Window)
	assert.Equal(t, 5, cfg.Rules.VelocityThreshold)
	assert.Equal(t, FailOpen, cfg.VelocityFailPolicy)
}
