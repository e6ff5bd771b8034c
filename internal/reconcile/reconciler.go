// Package reconcile keeps the in-memory roadmap and the document store in
// step. Saves are optimistic: the caller's state is already updated, and the
// reconciler writes the newest snapshot in the background with retry. While
// offline, the snapshot waits in memory and in the local outbox.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
)

// Options configures a Reconciler.
type Options struct {
	Retry   RetryOptions
	Outbox  Outbox   // optional
	Metrics *Metrics // optional
	Logger  *slog.Logger
	Offline bool // start in offline mode
}

// Status is a point-in-time view for the presentation layer.
type Status struct {
	Online  bool
	Pending bool
	Stalled bool // the last write failed and waits for a new trigger
	LastErr error
}

// Reconciler writes roadmap snapshots to a Store. Saves coalesce: only the
// newest snapshot is ever written, so a slow older write cannot land after a
// newer one. Safe for concurrent use.
type Reconciler struct {
	store   Store
	outbox  Outbox
	retry   RetryOptions
	metrics *Metrics
	logger  *slog.Logger

	mu       sync.Mutex
	online   bool
	pending  []byte
	gen      uint64
	flushing bool
	stalled  bool
	stallErr error // why the queue stalled; kept until the stall clears
	lastErr  error // at-most-once report slot, see TakeError
	closed   bool
	changed  chan struct{} // closed and replaced on every state change

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a reconciler and its background flusher. Call Close to stop it.
func New(store Store, opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Reconciler{
		store:   store,
		outbox:  opts.Outbox,
		metrics: opts.Metrics,
		logger:  logger,
		online:  !opts.Offline,
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	r.retry = opts.Retry
	userOnRetry := opts.Retry.OnRetry
	r.retry.OnRetry = func(err error, attempt int) {
		r.metrics.retried()
		r.logger.Warn("store operation failed, retrying",
			"attempt", attempt,
			"delay", Backoff(r.retry.BaseDelay, attempt-1),
			"error", err,
		)
		if userOnRetry != nil {
			userOnRetry(err, attempt)
		}
	}

	go r.run(ctx)
	return r
}

// Load reads the document and normalizes it. A dirty outbox copy wins over
// the store and is queued for writing again. When the store cannot be
// reached, the last clean local copy is used and the reconciler goes
// offline. A legacy-shaped document is rewritten in the keyed shape.
func (r *Reconciler) Load(ctx context.Context) (domain.RoadmapData, error) {
	var local OutboxEntry
	var hasLocal bool
	if r.outbox != nil {
		e, ok, err := r.outbox.Get(ctx)
		if err != nil {
			r.logger.Warn("reading outbox", "error", err)
		} else {
			local, hasLocal = e, ok
		}
	}

	body, fromStore, err := r.readBody(ctx, local, hasLocal)
	if err != nil {
		return domain.RoadmapData{}, err
	}

	doc, err := wire.Decode(body)
	if err != nil {
		return domain.RoadmapData{}, err
	}
	data, err := wire.FromWireFormat(doc)
	if err != nil {
		return domain.RoadmapData{}, err
	}

	switch {
	case hasLocal && local.Dirty:
		r.logger.Info("requeueing unsynced local changes", "updated_at", local.UpdatedAt)
		r.setPending(body)
		r.kick()
	case fromStore && r.outbox != nil && body != nil:
		if err := r.outbox.Put(ctx, body, false); err != nil {
			r.logger.Warn("caching document locally", "error", err)
		}
	}

	if wire.IsLegacyFormat(doc) {
		r.logger.Info("migrating legacy document", "collections", wire.LegacyCollections(doc))
		if err := r.Save(ctx, data); err != nil {
			return data, fmt.Errorf("migrating legacy document: %w", err)
		}
	}
	return data, nil
}

func (r *Reconciler) readBody(ctx context.Context, local OutboxEntry, hasLocal bool) ([]byte, bool, error) {
	if hasLocal && local.Dirty {
		return local.Body, false, nil
	}
	if !r.Online() {
		if hasLocal {
			return local.Body, false, nil
		}
		return nil, false, ErrOffline
	}

	body, err := WithRetry(ctx, r.store.Read, r.retry)
	if err == nil {
		return body, true, nil
	}
	if IsRetryable(err) && hasLocal {
		r.logger.Warn("store unreachable, using local copy", "error", err)
		r.SetOnline(false)
		return local.Body, false, nil
	}
	return nil, false, fmt.Errorf("reading document: %w", err)
}

// Save queues data for writing and returns at once. The local outbox is
// updated before the write is attempted.
func (r *Reconciler) Save(ctx context.Context, data domain.RoadmapData) error {
	doc, err := wire.ToWireFormat(data)
	if err != nil {
		return fmt.Errorf("encoding roadmap: %w", err)
	}
	body, err := doc.Encode()
	if err != nil {
		return err
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if r.outbox != nil {
		if err := r.outbox.Put(ctx, body, true); err != nil {
			r.logger.Warn("queueing document in outbox", "error", err)
		}
	}
	r.setPending(body)
	r.kick()
	return nil
}

func (r *Reconciler) setPending(body []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.pending = body
	r.clearStallLocked()
	r.metrics.setPending(true)
	r.notifyLocked()
}

// SetOnline feeds the external connectivity signal. Going online flushes
// anything queued, including a write that previously gave up.
func (r *Reconciler) SetOnline(online bool) {
	r.mu.Lock()
	changed := r.online != online
	r.online = online
	if online && changed {
		r.clearStallLocked()
	}
	r.notifyLocked()
	r.mu.Unlock()

	if changed {
		r.logger.Info("connectivity changed", "online", online)
	}
	if online {
		r.kick()
	}
}

// Probe pings the store when it supports it and updates the online state.
func (r *Reconciler) Probe(ctx context.Context) error {
	p, ok := r.store.(Pinger)
	if !ok {
		return nil
	}
	err := p.Ping(ctx)
	r.SetOnline(err == nil)
	return err
}

// Online reports the current connectivity state.
func (r *Reconciler) Online() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.online
}

// Pending reports whether a snapshot is waiting to be written.
func (r *Reconciler) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

// Status returns the current sync state without consuming the error.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{Online: r.online, Pending: r.pending != nil, Stalled: r.stalled, LastErr: r.lastErr}
}

// TakeError returns the latest persistence error and clears it, so each
// failure is shown at most once.
func (r *Reconciler) TakeError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.lastErr
	r.lastErr = nil
	return err
}

// Flush retries a stalled write and waits for the queue to settle.
func (r *Reconciler) Flush(ctx context.Context) error {
	r.mu.Lock()
	r.clearStallLocked()
	r.mu.Unlock()
	r.kick()
	return r.Wait(ctx)
}

func (r *Reconciler) clearStallLocked() {
	r.stalled = false
	r.stallErr = nil
}

// Wait blocks until nothing is being written. It returns nil when everything
// is stored, ErrOffline when the snapshot is parked offline, or the error
// that stalled the last write.
func (r *Reconciler) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		done, err := r.settledLocked()
		ch := r.changed
		r.mu.Unlock()
		if done {
			return err
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Reconciler) settledLocked() (bool, error) {
	switch {
	case r.flushing:
		return false, nil
	case r.pending == nil:
		return true, nil
	case r.stalled:
		return true, r.stallErr
	case !r.online:
		return true, ErrOffline
	case r.closed:
		return true, ErrClosed
	}
	return false, nil
}

// Close makes a final flush attempt within ctx and stops the flusher. A
// snapshot that could not be written stays in the outbox for next time.
func (r *Reconciler) Close(ctx context.Context) error {
	err := r.Flush(ctx)

	r.mu.Lock()
	r.closed = true
	r.notifyLocked()
	r.mu.Unlock()

	r.cancel()
	<-r.done
	return err
}

func (r *Reconciler) kick() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Reconciler) notifyLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
			r.drain(ctx)
		}
	}
}

// drain writes the newest pending snapshot until none is left or a write
// fails.
func (r *Reconciler) drain(ctx context.Context) {
	for {
		r.mu.Lock()
		if r.pending == nil || !r.online || r.stalled {
			r.flushing = false
			r.notifyLocked()
			r.mu.Unlock()
			return
		}
		body, gen := r.pending, r.gen
		r.flushing = true
		r.mu.Unlock()

		err := r.write(ctx, body)

		r.mu.Lock()
		if err == nil {
			if r.gen == gen {
				r.pending = nil
				r.metrics.setPending(false)
			}
		} else {
			r.lastErr = err
			r.stalled = true
			r.stallErr = err
			if IsRetryable(err) {
				// Out of retries on a transient failure: treat the store as
				// unreachable until the connectivity signal says otherwise.
				r.online = false
			}
		}
		r.mu.Unlock()

		if err != nil {
			r.logger.Error("document write failed", "error", err, "retryable", IsRetryable(err))
			continue
		}
		if r.outbox != nil {
			if oerr := r.outbox.MarkSynced(ctx, body); oerr != nil {
				r.logger.Warn("marking outbox synced", "error", oerr)
			}
		}
	}
}

func (r *Reconciler) write(ctx context.Context, body []byte) error {
	_, err := WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.store.Write(ctx, body)
	}, r.retry)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// Shutting down; the snapshot stays queued in the outbox.
		return err
	}
	r.metrics.writeResult(err)
	return err
}
