package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/jordanhale/timeloom/internal/db"
)

// FailOnNthExecUoW is a unit of work whose transactions return Err from
// the Nth write. Rollback tests use it to break a multi-insert commit
// partway through and assert nothing was persisted.
//
// Writes are counted from 1; reads pass through uncounted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &countedWrites{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// countedWrites intercepts ExecContext to fail on the configured call.
type countedWrites struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (c *countedWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.count.Add(1) == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
