package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/db"
)

// NewTestDB opens an in-memory SQLite database with the document and outbox
// schema applied. It is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestDBPath returns a path for a file-backed database inside the test's
// temp dir. Nothing is created until the path is opened.
func NewTestDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name+".db")
}
