package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errConflict = errors.New("conflict")

func fastConfig(attempts int) *RetryConfig {
	cfg := ConflictRetryConfig(attempts, func(err error) bool { return errors.Is(err, errConflict) })
	cfg.InitialDelay = time.Microsecond
	cfg.MaxDelay = time.Microsecond
	return cfg
}

func TestRetrySucceedsAfterConflicts(t *testing.T) {
	calls := 0
	retries := 0
	cfg := fastConfig(5)
	cfg.OnRetry = func(int, error) { retries++ }

	err := Retry(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errConflict
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	fatal := errors.New("invalid quantity")

	err := Retry(context.Background(), fastConfig(5), func() error {
		calls++
		return fatal
	})

	assert.Same(t, fatal, err)
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustionWrapsLastError(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), fastConfig(4), func() error {
		calls++
		return errConflict
	})

	assert.ErrorIs(t, err, errConflict)
	assert.Equal(t, 4, calls)
}

func TestRetryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	err := Retry(ctx, fastConfig(3), func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryWithResult(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errConflict
		}
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestJitterStaysWithinBounds(t *testing.T) {
	cfg := &RetryConfig{Jitter: true}
	for i := 0; i < 100; i++ {
		d := cfg.sleepFor(10 * time.Millisecond)
		assert.GreaterOrEqual(t, d, 5*time.Millisecond)
		assert.LessOrEqual(t, d, 10*time.Millisecond)
	}
}
