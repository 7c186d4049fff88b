package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crediario/loan-engine/internal/infrastructure/config"
)

func TestLoad(t *testing.T) {
	t.Run("falls back to defaults", func(t *testing.T) {
		cfg := config.Load()

		assert.Equal(t, 8090, cfg.HTTPPort)
		assert.Equal(t, ":8090", cfg.HTTPAddr())
		assert.Equal(t, "localhost", cfg.DB.Host)
		assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 6*time.Hour, cfg.SweepInterval)
		assert.Equal(t, "loan-engine", cfg.ServiceName)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
		t.Setenv("LOAN_CACHE_TTL", "30s")
		t.Setenv("SWEEP_TENANT_ID", "tenant-001")

		cfg := config.Load()

		assert.Equal(t, 9000, cfg.HTTPPort)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
		assert.Equal(t, "tenant-001", cfg.SweepTenant)
	})

	t.Run("ignores malformed numeric values", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "not-a-port")

		cfg := config.Load()

		assert.Equal(t, 8090, cfg.HTTPPort)
	})

	t.Run("validate panics without a database password", func(t *testing.T) {
		cfg := config.Load()
		cfg.DB.Password = ""

		assert.Panics(t, func() { cfg.Validate() })
	})
}
