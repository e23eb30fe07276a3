package processing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrublog/config"
	"scrublog/internal/models"
	"scrublog/internal/storage/store"
)

// stubConsumer delivers queued messages and records acknowledgements.
type stubConsumer struct {
	msgs chan *models.RawMessage

	mu   sync.Mutex
	acks map[string]bool
}

func newStubConsumer(msgs ...*models.RawMessage) *stubConsumer {
	c := &stubConsumer{
		msgs: make(chan *models.RawMessage, len(msgs)),
		acks: make(map[string]bool),
	}
	for _, m := range msgs {
		c.msgs <- m
	}
	return c
}

func (c *stubConsumer) Consume(ctx context.Context) (*models.RawMessage, func(success bool), error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case m := <-c.msgs:
		ack := func(success bool) {
			c.mu.Lock()
			c.acks[m.MessageID] = success
			c.mu.Unlock()
		}
		return m, ack, nil
	}
}

func (c *stubConsumer) Close() error { return nil }

func (c *stubConsumer) ackOutcome(id string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.acks[id]
	return v, ok
}

func (c *stubConsumer) ackCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.acks)
}

func TestWorkerAcksByBatchResult(t *testing.T) {
	mem := store.NewMemoryStore()
	cons := newStubConsumer(
		rawMessage(t, "m-1", models.LogRecord{TenantID: "acme-1", LogID: "log-1", Text: "a"}),
		&models.RawMessage{MessageID: "m-2", Body: "not json"},
		rawMessage(t, "m-3", models.LogRecord{TenantID: "acme-1", LogID: "log-3", Text: "b"}),
	)

	cfg := config.ProcessingConfig{
		Concurrency:        1,
		BatchSize:          2,
		BatchTimeout:       "100ms",
		ConsumerRetryDelay: "10ms",
	}
	w := New(cfg, testLogger(), NewProcessor(mem, testLogger()), cons)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// All three messages should be acked within a couple of batch
	// timeouts: two as a full batch, the third via the timer flush.
	require.Eventually(t, func() bool { return cons.ackCount() == 3 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	acked, ok := cons.ackOutcome("m-1")
	require.True(t, ok)
	assert.True(t, acked)

	nacked, ok := cons.ackOutcome("m-2")
	require.True(t, ok)
	assert.False(t, nacked, "failed message must be nacked for redelivery")

	acked, ok = cons.ackOutcome("m-3")
	require.True(t, ok)
	assert.True(t, acked)

	assert.Equal(t, 2, mem.Len())
}
