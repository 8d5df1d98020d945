package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM t;`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO t (v) VALUES (?)`, "a")
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)

	sentinel := errors.New("boom")
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO t (v) VALUES (?)`, "a"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 0, countRows(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)

	require.Panics(t, func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO t (v) VALUES (?)`, "a"); err != nil {
				return err
			}
			panic("kaboom")
		})
	})
	require.Equal(t, 0, countRows(t, db))
}
