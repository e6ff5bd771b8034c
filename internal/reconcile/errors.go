package reconcile

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
)

var (
	// ErrPermissionDenied indicates the store refused the write. Retrying
	// cannot help, so it is surfaced at once.
	ErrPermissionDenied = errors.New("document store: permission denied")

	// ErrUnavailable indicates the store could not be reached. Retryable.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrOffline is reported while writes are parked because the store is
	// known to be unreachable.
	ErrOffline = errors.New("offline: changes are queued locally")

	// ErrClosed is returned by Save after Close.
	ErrClosed = errors.New("reconciler closed")
)

// retryable lets store adapters classify their own errors.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err is a transient persistence failure worth
// another attempt: timeouts, dropped connections, busy stores. Permission
// and malformed-document failures are permanent, as is caller cancellation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, wire.ErrMalformedDocument),
		errors.Is(err, context.Canceled):
		return false
	}

	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}

	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// StoreError wraps a store failure with an explicit retry classification.
type StoreError struct {
	Op        string
	Err       error
	Transient bool
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Retryable implements the classification hook read by IsRetryable.
func (e *StoreError) Retryable() bool { return e.Transient }
