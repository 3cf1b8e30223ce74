package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
environment: test
backend:
  type: clickhouse
clickhouse:
  host: localhost
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "salecast", cfg.ClickHouse.Database)
	assert.Equal(t, "sales_raw", cfg.ClickHouse.Table)
	assert.Equal(t, "salecast.sales_raw", cfg.SalesTable())
	assert.Equal(t, 7, cfg.Forecast.Window)
	assert.Equal(t, 1000, cfg.Forecast.Trials)
	assert.InDelta(t, 0.1, cfg.Forecast.Volatility, 1e-9)
	assert.Equal(t, time.Minute, cfg.Forecast.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "salecast", cfg.Cache.Redis.Prefix)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: postgres
clickhouse:
  host: localhost
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.type")
}

func TestLoadRequiresKafkaSettingsForKafkaBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: kafka
clickhouse:
  host: localhost
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND", "kafka")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("KAFKA_TOPIC", "sales.override")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "kafka", cfg.Backend.Type)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "sales.override", cfg.Kafka.Topic)
	assert.Equal(t, "ch.internal", cfg.ClickHouse.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
