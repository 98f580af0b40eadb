package worker

import (
	"context"
	"fmt"
	"time"
)

// linearBackoff waits 500ms, 1s, 1.5s, ...
func linearBackoff(attempt int) time.Duration {
	return time.Duration(500*(attempt+1)) * time.Millisecond
}

// retry calls fn up to attempts times, sleeping backoff(i) between failures.
// It stops early when ctx is done.
func retry[T any](ctx context.Context, attempts int, backoff func(int) time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(backoff(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("after %d attempts: %w", i+1, ctx.Err())
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
