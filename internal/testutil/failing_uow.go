package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/db"
)

// ErrInjected is the default failure returned by FailingUoW.
var ErrInjected = errors.New("injected failure")

// FailingUoW runs transactions against DB but fails one of them on purpose:
// either at the FailOnExec-th ExecContext (counted from 1, reads are not
// counted) or, with FailCommit, in place of the commit. Either way the
// transaction is rolled back, so tests can assert nothing was written.
type FailingUoW struct {
	DB         *sql.DB
	FailOnExec int
	FailCommit bool
	Err        error

	Attempts int
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.Attempts++
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	failure := u.Err
	if failure == nil {
		failure = ErrInjected
	}

	wrapped := &failingExec{DBTX: tx, failOn: u.FailOnExec, err: failure}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if u.FailCommit {
		_ = tx.Rollback()
		return failure
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	calls  int
	failOn int
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.calls++
	if f.calls == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
