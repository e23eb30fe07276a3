package producer

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrublog/config"
)

func TestLocalProducerEnqueue(t *testing.T) {
	var buf bytes.Buffer
	p := NewLocalProducer(log.New(&buf, "", 0))

	id, detail := p.Enqueue(context.Background(), testRecord())
	require.Nil(t, detail)
	assert.True(t, strings.HasPrefix(id, "local-"), "local message ids must be tagged, got %q", id)
	assert.Equal(t, ModeLocal, p.Mode())

	// The would-be payload is logged so the degraded state is observable.
	assert.Contains(t, buf.String(), "[LOCAL MODE]")
	assert.Contains(t, buf.String(), `"tenant_id":"acme-1"`)

	other, detail := p.Enqueue(context.Background(), testRecord())
	require.Nil(t, detail)
	assert.NotEqual(t, id, other, "each enqueue synthesizes a fresh id")
}

func TestNewSelectsVariant(t *testing.T) {
	t.Run("Unconfigured", func(t *testing.T) {
		cfg := config.KafkaProducerConfig{}
		cfg.SetDefaults()

		p, err := New(cfg, testLogger())
		require.NoError(t, err)
		assert.Equal(t, ModeLocal, p.Mode())
	})

	t.Run("Configured", func(t *testing.T) {
		cfg := config.KafkaProducerConfig{Brokers: []string{"localhost:9092"}, Topic: "raw-logs"}
		cfg.SetDefaults()

		p, err := New(cfg, testLogger())
		require.NoError(t, err)
		assert.Equal(t, ModeKafka, p.Mode())
	})
}
