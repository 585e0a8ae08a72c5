package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var states []int
	cfg := DefaultCircuitBreakerConfig("kafka-publisher")
	cfg.FailureThreshold = 2
	cfg.OnStateChange = func(_ string, state int) { states = append(states, state) }

	cb := NewCircuitBreaker(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	boom := errors.New("broker down")

	for i := 0; i < 2; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, []int{2}, states)

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, "kafka-publisher", cb.Name())
}
