package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
)

// ErrUnreachable is wrapped in the transient error MemStore returns while it
// is marked unreachable.
var ErrUnreachable = errors.New("store unreachable")

// MemStore is an in-memory document store with scripted failures. It
// satisfies reconcile.Store and reconcile.Pinger.
type MemStore struct {
	mu          sync.Mutex
	body        []byte
	writes      int
	reads       int
	failures    []error
	unreachable bool
}

// NewMemStore returns a store holding body (nil for no document yet).
func NewMemStore(body []byte) *MemStore {
	return &MemStore{body: slices.Clone(body)}
}

// FailNext queues errors returned by the next reads or writes, one per call.
func (s *MemStore) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, errs...)
}

// SetUnreachable makes every call fail with a transient error until cleared.
func (s *MemStore) SetUnreachable(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unreachable = v
}

func (s *MemStore) Read(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if err := s.failureLocked("read"); err != nil {
		return nil, err
	}
	return slices.Clone(s.body), nil
}

func (s *MemStore) Write(ctx context.Context, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failureLocked("write"); err != nil {
		return err
	}
	s.writes++
	s.body = slices.Clone(body)
	return nil
}

func (s *MemStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unreachable {
		return &reconcile.StoreError{Op: "ping", Err: ErrUnreachable, Transient: true}
	}
	return nil
}

// Body returns the last written document.
func (s *MemStore) Body() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.body)
}

// Writes returns how many writes succeeded.
func (s *MemStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Reads returns how many reads were attempted.
func (s *MemStore) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *MemStore) failureLocked(op string) error {
	if s.unreachable {
		return &reconcile.StoreError{Op: op, Err: ErrUnreachable, Transient: true}
	}
	if len(s.failures) == 0 {
		return nil
	}
	err := s.failures[0]
	s.failures = s.failures[1:]
	return err
}
