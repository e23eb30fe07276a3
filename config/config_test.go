package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		def  time.Duration
		want time.Duration
	}{
		{"valid", "250ms", time.Second, 250 * time.Millisecond},
		{"empty uses default", "", 5 * time.Second, 5 * time.Second},
		{"invalid uses default", "not-a-duration", 2 * time.Second, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.in, tt.def))
		})
	}
}

func TestLoadIngestionConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("configured producer", func(t *testing.T) {
		path := writeFile(t, dir, "ingestion.yml", `
http_listen_addr: ":8080"
kafka_producer:
  brokers: ["kafka:9092"]
  topic: "raw-logs"
  retry_backoff: "150ms"
rate_limit:
  requests_per_second: 100
  burst: 20
`)
		cfg, err := LoadIngestionConfig(path)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.HttpListenAddr)
		assert.True(t, cfg.KafkaProducer.Configured())
		assert.Equal(t, "150ms", cfg.KafkaProducer.RetryBackoff)
		assert.Equal(t, 3, cfg.KafkaProducer.MaxAttempts) // default
		assert.Equal(t, "5s", cfg.HttpServer.ReadTimeout) // default
		assert.Equal(t, float64(100), cfg.RateLimit.RequestsPerSecond)
	})

	t.Run("missing listen addr fails", func(t *testing.T) {
		path := writeFile(t, dir, "no_addr.yml", `
kafka_producer:
  brokers: ["kafka:9092"]
  topic: "raw-logs"
`)
		_, err := LoadIngestionConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http_listen_addr")
	})

	t.Run("empty brokers selects local mode", func(t *testing.T) {
		path := writeFile(t, dir, "local.yml", `
http_listen_addr: ":8080"
`)
		cfg, err := LoadIngestionConfig(path)
		require.NoError(t, err)
		assert.False(t, cfg.KafkaProducer.Configured())
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadIngestionConfig(filepath.Join(dir, "nope.yml"))
		require.Error(t, err)
	})
}

func TestLoadWorkerConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults applied", func(t *testing.T) {
		path := writeFile(t, dir, "worker.yml", `
database:
  dsn: "postgres://app:app@db:5432/logs"
kafka_consumer:
  brokers: ["kafka:9092"]
  topic: "raw-logs"
  group_id: "scrub-workers"
`)
		cfg, err := LoadWorkerConfig(path)
		require.NoError(t, err)

		assert.True(t, cfg.Database.Configured())
		assert.Equal(t, 10, cfg.Database.MaxConnections)
		assert.Equal(t, 2, cfg.Database.MinConnections)
		assert.True(t, cfg.KafkaConsumer.Configured())
		assert.Equal(t, 1, cfg.KafkaConsumer.Count)
		assert.Equal(t, "earliest", cfg.KafkaConsumer.AutoOffsetReset)
		assert.Equal(t, 10, cfg.Processing.BatchSize)
		assert.Equal(t, "1s", cfg.Processing.BatchTimeout)
	})

	t.Run("pool bounds validated", func(t *testing.T) {
		path := writeFile(t, dir, "bad_pool.yml", `
database:
  dsn: "postgres://app:app@db:5432/logs"
  max_connections: 2
  min_connections: 5
`)
		_, err := LoadWorkerConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_connections")
	})

	t.Run("empty dsn selects unconfigured store", func(t *testing.T) {
		path := writeFile(t, dir, "no_db.yml", `
processing:
  concurrency: 2
`)
		cfg, err := LoadWorkerConfig(path)
		require.NoError(t, err)
		assert.False(t, cfg.Database.Configured())
		assert.False(t, cfg.KafkaConsumer.Configured())
		assert.Equal(t, 2, cfg.Processing.Concurrency)
	})
}

func TestLoadConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ingestion.defaults.yml", `
http_listen_addr: ":8080"
`)
	writeFile(t, dir, "worker.defaults.yml", `
processing:
  concurrency: 1
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Ingestion)
	require.NotNil(t, cfg.Worker)

	t.Run("missing files are skipped", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg.Ingestion)
		assert.Nil(t, cfg.Worker)
	})
}
