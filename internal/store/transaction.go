package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner runs a function inside a database transaction. Services depend on
// this interface rather than *sql.DB so their transactional paths can be
// exercised against in-memory stores, whose WithTx implementations ignore the
// tx handle.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type dbTxRunner struct {
	db *sql.DB
}

// NewTxRunner wraps db in a TxRunner backed by real transactions.
func NewTxRunner(db *sql.DB) TxRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return RunInTransaction(ctx, r.db, fn)
}

// RunInTransaction executes fn within a database transaction, committing on
// success and rolling back on error. The rollback error, if any, is joined
// to the original failure so neither is lost.
func RunInTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	return nil
}
