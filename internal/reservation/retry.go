package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds how often a network-backed store repeats an operation after a transient failure.
type RetryConfig struct {
	Attempts uint64
	Base     time.Duration
}

// DefaultRetryConfig is used when a store is constructed with a zero RetryConfig.
var DefaultRetryConfig = RetryConfig{Attempts: 3, Base: 50 * time.Millisecond}

func (c RetryConfig) backoff() retry.Backoff {
	if c.Attempts == 0 && c.Base == 0 {
		c = DefaultRetryConfig
	}
	if c.Base <= 0 {
		c.Base = DefaultRetryConfig.Base
	}
	b := retry.NewExponential(c.Base)
	b = retry.WithCappedDuration(2*time.Second, b)
	return retry.WithMaxRetries(c.Attempts, b)
}

// do runs fn, repeating it while isTransient classifies the error as transient.
// Once retries are exhausted the last error is reported wrapped in ErrUnavailable.
// Definite outcomes are returned unchanged on the first attempt.
func (c RetryConfig) do(ctx context.Context, isTransient func(error) bool, fn func(ctx context.Context) error) error {
	var last error
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && isTransient(err) {
			last = err
			return retry.RetryableError(err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	if last != nil && errors.Is(err, last) {
		return fmt.Errorf("%w: %w", ErrUnavailable, last)
	}
	return err
}
