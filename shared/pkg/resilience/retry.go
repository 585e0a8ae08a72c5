package resilience

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryConfig controls bounded retries with exponential backoff
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Jitter          bool
	RetryableErrors func(error) bool
	// OnRetry is called before sleeping ahead of the next attempt
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig returns defaults that retry nothing unless RetryableErrors is set
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   DefaultRetryMaxAttempts,
		InitialDelay:  DefaultRetryInitialDelay,
		MaxDelay:      DefaultRetryMaxDelay,
		BackoffFactor: DefaultRetryBackoffFactor,
		RetryableErrors: func(err error) bool {
			return false
		},
	}
}

// ConflictRetryConfig returns a config for optimistic concurrency retries
func ConflictRetryConfig(maxAttempts int, retryable func(error) bool) *RetryConfig {
	if maxAttempts <= 0 {
		maxAttempts = DefaultConflictMaxAttempts
	}
	return &RetryConfig{
		MaxAttempts:     maxAttempts,
		InitialDelay:    DefaultConflictInitialDelay,
		MaxDelay:        DefaultConflictMaxDelay,
		BackoffFactor:   DefaultRetryBackoffFactor,
		Jitter:          true,
		RetryableErrors: retryable,
	}
}

// Retry executes fn until it succeeds, returns a non-retryable error, or
// exhausts MaxAttempts. The final error wraps the last failure.
func Retry(ctx context.Context, config *RetryConfig, fn func() error) error {
	_, err := RetryWithResult(ctx, config, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryWithResult executes a function with retry logic and returns a result
func RetryWithResult[T any](ctx context.Context, config *RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if config.RetryableErrors != nil && !config.RetryableErrors(err) {
			return zero, err
		}
		if attempt == config.MaxAttempts {
			break
		}

		if config.OnRetry != nil {
			config.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(config.sleepFor(delay)):
		}

		delay = time.Duration(float64(delay) * config.BackoffFactor)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", config.MaxAttempts, lastErr)
}

func (c *RetryConfig) sleepFor(delay time.Duration) time.Duration {
	if !c.Jitter || delay <= 0 {
		return delay
	}
	// full jitter in [delay/2, delay]
	half := int64(delay / 2)
	return time.Duration(half + rand.Int64N(half+1))
}
