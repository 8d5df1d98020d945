// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/financevault/backend/internal/dbx"
	"github.com/financevault/backend/internal/server/migrations"
	"github.com/financevault/backend/internal/server/repositories/expenses"
	"github.com/financevault/backend/internal/server/repositories/invalidjwts"
	"github.com/financevault/backend/internal/server/repositories/keys"
	"github.com/financevault/backend/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Keys returns a keys.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Keys(db dbx.DBTX) keys.Repository {
	return keys.NewPostgresRepository(db)
}

// InvalidJWTs returns an invalidjwts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) InvalidJWTs(db dbx.DBTX) invalidjwts.Repository {
	return invalidjwts.NewPostgresRepository(db)
}

// Expenses returns an expenses.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Expenses(db dbx.DBTX) expenses.Repository {
	return expenses.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
