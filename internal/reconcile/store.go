package reconcile

import (
	"context"
	"time"
)

// Store is the remote document store holding one roadmap document.
type Store interface {
	// Read returns the stored body, or nil when no document exists yet.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the whole document.
	Write(ctx context.Context, body []byte) error
}

// Pinger is implemented by stores that can cheaply check reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OutboxEntry is the locally kept copy of the document.
type OutboxEntry struct {
	Body      []byte
	Dirty     bool // written locally but not yet accepted by the store
	UpdatedAt time.Time
}

// Outbox keeps the last known document on local disk so that unsynced
// writes survive a restart and an offline start has something to show.
type Outbox interface {
	Get(ctx context.Context) (OutboxEntry, bool, error)
	Put(ctx context.Context, body []byte, dirty bool) error
	// MarkSynced clears the dirty flag only if the stored body is still body,
	// so a newer local write is never marked clean by an older flush.
	MarkSynced(ctx context.Context, body []byte) error
}
