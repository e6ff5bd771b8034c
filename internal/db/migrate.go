package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// documents holds one stored roadmap per id. It plays the remote store.
	`CREATE TABLE IF NOT EXISTS documents (
		roadmap_id TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		revision   INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,

	// outbox keeps the local copy of each roadmap; dirty rows await a write.
	`CREATE TABLE IF NOT EXISTS outbox (
		roadmap_id TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		dirty      INTEGER NOT NULL DEFAULT 1 CHECK(dirty IN (0,1)),
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_dirty ON outbox(dirty)`,

	// writer records which client wrote the current revision.
	`ALTER TABLE documents ADD COLUMN writer TEXT NOT NULL DEFAULT ''`,
}
