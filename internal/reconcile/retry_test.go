package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSleep returns a Sleep that records delays instead of waiting.
func recordSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestWithRetry_TwoFailuresThenSuccess(t *testing.T) {
	var delays []time.Duration
	var retried []int
	calls := 0

	got, err := WithRetry(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", ErrUnavailable
		}
		return "ok", nil
	}, RetryOptions{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		OnRetry:    func(_ error, attempt int) { retried = append(retried, attempt) },
		Sleep:      recordSleep(&delays),
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried, "OnRetry runs exactly twice")
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestWithRetry_ExhaustionReturnsLastError(t *testing.T) {
	const maxRetries = 3
	calls := 0
	var last error
	var delays []time.Duration

	_, err := WithRetry(context.Background(), func(context.Context) (int, error) {
		calls++
		last = &StoreError{Op: "write", Err: fmt.Errorf("timeout #%d", calls), Transient: true}
		return 0, last
	}, RetryOptions{MaxRetries: maxRetries, BaseDelay: time.Second, Sleep: recordSleep(&delays)})

	require.Error(t, err)
	assert.Same(t, last, err)
	assert.Equal(t, maxRetries+1, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, delays)
}

func TestWithRetry_NonRetryableFailsFast(t *testing.T) {
	calls := 0
	onRetry := 0
	_, err := WithRetry(context.Background(), func(context.Context) (struct{}, error) {
		calls++
		return struct{}{}, fmt.Errorf("writing: %w", ErrPermissionDenied)
	}, RetryOptions{MaxRetries: 5, OnRetry: func(error, int) { onRetry++ }, Sleep: recordSleep(new([]time.Duration))})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 1, calls)
	assert.Zero(t, onRetry)
}

func TestWithRetry_ZeroRetries(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, ErrUnavailable
	}, RetryOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := WithRetry(ctx, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, ErrUnavailable
	}, RetryOptions{MaxRetries: 5, BaseDelay: time.Hour})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RealSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := WithRetry(ctx, func(context.Context) (int, error) {
		return 0, ErrUnavailable
	}, RetryOptions{MaxRetries: 1, BaseDelay: time.Hour})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 50*time.Millisecond, Backoff(50*time.Millisecond, 0))
	assert.Equal(t, 400*time.Millisecond, Backoff(50*time.Millisecond, 3))
	assert.Equal(t, Backoff(time.Millisecond, maxBackoffShift), Backoff(time.Millisecond, 99))
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", fmt.Errorf("read: %w", ErrUnavailable), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"permission", ErrPermissionDenied, false},
		{"malformed", fmt.Errorf("x: %w", wire.ErrMalformedDocument), false},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"store transient", &StoreError{Op: "write", Err: errors.New("busy"), Transient: true}, true},
		{"store permanent", &StoreError{Op: "write", Err: errors.New("readonly")}, false},
		{"unknown", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}
