package reconcile

import (
	"context"
	"time"
)

// maxBackoffShift caps the exponent so the delay cannot overflow.
const maxBackoffShift = 20

// RetryOptions configures WithRetry.
type RetryOptions struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the wait before the first retry. Each later wait doubles.
	BaseDelay time.Duration

	// OnRetry, when set, is called with the failure and the 1-based retry
	// number before each wait.
	OnRetry func(err error, attempt int)

	// Sleep waits between attempts. Defaults to a context-aware timer; tests
	// substitute one that records the delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Backoff returns the wait before retry number attempt+1: base * 2^attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	return base * time.Duration(1<<attempt)
}

// WithRetry runs op until it succeeds, fails with a non-retryable error, or
// has failed MaxRetries+1 times. The last error is returned unwrapped.
func WithRetry[T any](ctx context.Context, op func(context.Context) (T, error), opts RetryOptions) (T, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= opts.MaxRetries || !IsRetryable(err) || ctx.Err() != nil {
			return zero, err
		}
		if opts.OnRetry != nil {
			opts.OnRetry(err, attempt+1)
		}
		if serr := sleep(ctx, Backoff(opts.BaseDelay, attempt)); serr != nil {
			return zero, serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
