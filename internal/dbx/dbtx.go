// Package dbx provides the small DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run a write sequence inside a transaction, and the pool
// constructor with its connect fallback.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy this interface, so a repository bound to
// a DBTX runs its statements either autocommitted or inside the caller's
// transaction scope.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Stages of a transactional sequence, recorded on TxError.
const (
	StageBegin  = "begin"
	StageExec   = "exec"
	StageCommit = "commit"
)

// TxError wraps any failure during a transactional sequence. By the time a
// TxError is returned the transaction has already been rolled back (or, for
// StageCommit, the commit itself failed and the tx is finished either way).
type TxError struct {
	Stage string
	Err   error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Stage, e.Err)
}

func (e *TxError) Unwrap() error { return e.Err }

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown after
// the rollback. Every failure is returned as a *TxError carrying the stage
// and the underlying cause; commit failure is final and never retried.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return &TxError{Stage: StageBegin, Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return &TxError{Stage: StageExec, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &TxError{Stage: StageCommit, Err: err}
	}

	return nil
}
