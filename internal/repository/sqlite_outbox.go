package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/db"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
)

// SQLiteOutbox implements reconcile.Outbox in the local database.
type SQLiteOutbox struct {
	db        db.DBTX
	roadmapID string
}

// NewSQLiteOutbox creates a new SQLiteOutbox for one roadmap.
func NewSQLiteOutbox(conn db.DBTX, roadmapID string) *SQLiteOutbox {
	return &SQLiteOutbox{db: conn, roadmapID: roadmapID}
}

func (o *SQLiteOutbox) Get(ctx context.Context) (reconcile.OutboxEntry, bool, error) {
	var body, updatedAt string
	var dirty int
	err := o.db.QueryRowContext(ctx,
		`SELECT body, dirty, updated_at FROM outbox WHERE roadmap_id = ?`, o.roadmapID).
		Scan(&body, &dirty, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return reconcile.OutboxEntry{}, false, nil
	}
	if err != nil {
		return reconcile.OutboxEntry{}, false, fmt.Errorf("reading outbox: %w", err)
	}
	return reconcile.OutboxEntry{
		Body:      []byte(body),
		Dirty:     intToBool(dirty),
		UpdatedAt: parseStoredTime(updatedAt),
	}, true, nil
}

func (o *SQLiteOutbox) Put(ctx context.Context, body []byte, dirty bool) error {
	_, err := o.db.ExecContext(ctx,
		`INSERT INTO outbox (roadmap_id, body, dirty, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(roadmap_id) DO UPDATE SET
		   body = excluded.body, dirty = excluded.dirty, updated_at = excluded.updated_at`,
		o.roadmapID, string(body), boolToInt(dirty), nowUTC())
	if err != nil {
		return fmt.Errorf("writing outbox: %w", err)
	}
	return nil
}

func (o *SQLiteOutbox) MarkSynced(ctx context.Context, body []byte) error {
	_, err := o.db.ExecContext(ctx,
		`UPDATE outbox SET dirty = 0 WHERE roadmap_id = ? AND body = ?`,
		o.roadmapID, string(body))
	if err != nil {
		return fmt.Errorf("marking outbox synced: %w", err)
	}
	return nil
}

// Discard drops the local copy, e.g. before importing a replacement.
func (o *SQLiteOutbox) Discard(ctx context.Context) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM outbox WHERE roadmap_id = ?`, o.roadmapID); err != nil {
		return fmt.Errorf("discarding outbox: %w", err)
	}
	return nil
}
