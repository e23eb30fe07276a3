package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailError(t *testing.T) {
	d := Validation("Invalid tenant_id", "tenant_id is required")
	assert.Equal(t, "Invalid tenant_id: tenant_id is required", d.Error())

	bare := &Detail{Kind: KindTransient, Message: "Queue unavailable"}
	assert.Equal(t, "Queue unavailable", bare.Error())
}

func TestRetryable(t *testing.T) {
	assert.True(t, Transientf("Queue unavailable", "timeout").Retryable())
	assert.False(t, Validation("Invalid input", "bad").Retryable())
	assert.False(t, Permanentf("Queue unavailable", "access denied").Retryable())
	assert.False(t, Configf("Store not configured", "no dsn").Retryable())
	assert.False(t, Unclassifiedf("Unexpected error", "boom").Retryable())
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	d := Permanentf("Queue unavailable", "denied")
	assert.Same(t, d, From(d))

	wrapped := From(errors.New("boom"))
	assert.Equal(t, KindUnclassified, wrapped.Kind)
	assert.Contains(t, wrapped.Reason, "boom")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "transient", KindTransient.String())
	assert.Equal(t, "permanent", KindPermanent.String())
	assert.Equal(t, "config", KindConfig.String())
	assert.Equal(t, "unclassified", KindUnclassified.String())
}
