// Package dbx carries the thin database plumbing shared by the
// FinanceVault repositories: the DBTX handle they all accept, and a
// transaction wrapper used where a read and a write must commit
// together (the register flow's existence re-check plus insert).
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs from its database handle. *sql.DB and
// *sql.Tx both satisfy it, so the same repository code serves plain
// calls and transactional ones; the repomanager hands repositories
// whichever handle the caller is working with. QueryContext is there
// for the multi-row reads (the expense listing); the other
// repositories get by on ExecContext and QueryRowContext.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. The transaction commits
// when fn returns nil and rolls back when it returns an error. A panic
// inside fn rolls back and is re-raised so it still crashes the caller.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
