package repomanager

import (
	"context"
	"database/sql"

	"github.com/financevault/backend/internal/dbx"
	"github.com/financevault/backend/internal/server/repositories/expenses"
	"github.com/financevault/backend/internal/server/repositories/invalidjwts"
	"github.com/financevault/backend/internal/server/repositories/keys"
	"github.com/financevault/backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Keys(db dbx.DBTX) keys.Repository
	InvalidJWTs(db dbx.DBTX) invalidjwts.Repository
	Expenses(db dbx.DBTX) expenses.Repository
}
