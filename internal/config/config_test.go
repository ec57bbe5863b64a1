package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.HoldTTLDefault)
	assert.Equal(t, 15*time.Second, cfg.HoldTTLMin)
	assert.Equal(t, 30*time.Minute, cfg.HoldTTLMax)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOLD_TTL_DEFAULT_SEC", "600")
	t.Setenv("SWEEP_INTERVAL_SEC", "5")
	t.Setenv("DB_PORT", "15432")
	t.Setenv("NATS_CLUSTER_ID", "motive-test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.HoldTTLDefault)
	assert.Equal(t, 5*time.Second, cfg.SweepInterval)
	assert.Equal(t, 15432, cfg.Database.Port)
	assert.Equal(t, "motive-test", cfg.NATS.ClusterID)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("HOLD_TTL_MAX_SEC", "not-a-number")

	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.HoldTTLMax)
}
