package helper

import (
	"context"
	"time"
)

// RetryWithBackoff runs op up to attempts times, doubling the delay between
// tries. It stops early when ctx is done. Used by the login profile lookup,
// which is the only path in the system that retries at all.
func RetryWithBackoff[T any](ctx context.Context, attempts int, delay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
