package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// parseStoredTime parses an RFC3339 column value. Returns the zero time when
// the value is empty or unparsable.
func parseStoredTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// classify maps SQLite result codes onto the reconciler's retry taxonomy:
// a busy or unreachable database is transient, a read-only one is a
// permission failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_PROTOCOL:
			return &reconcile.StoreError{Op: op, Err: err, Transient: true}
		case sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH:
			return fmt.Errorf("%s: %w: %v", op, reconcile.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
