package repository

import (
	"context"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
)

// ErrNotFound is returned when no row exists for the roadmap id.
var ErrNotFound = domain.ErrNotFound

// DocumentInfo describes the stored revision of a roadmap document.
type DocumentInfo struct {
	Revision  int
	UpdatedAt time.Time
	Writer    string
	Size      int
}

// DocumentStore is the store the reconciler writes to, plus metadata
// queries used by `sync status` and `doctor`.
type DocumentStore interface {
	reconcile.Store
	reconcile.Pinger
	Info(ctx context.Context) (DocumentInfo, error)
}

var (
	_ DocumentStore    = (*SQLiteDocumentStore)(nil)
	_ reconcile.Outbox = (*SQLiteOutbox)(nil)
)
