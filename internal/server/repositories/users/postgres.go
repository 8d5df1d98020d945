package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/financevault/backend/internal/common"
	"github.com/financevault/backend/internal/dbx"
	"github.com/financevault/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, name, password, salt)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Password, user.Salt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	query :=
		`SELECT id, name, password, salt FROM users
		 WHERE name = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&user.ID, &user.Name, &user.Password, &user.Salt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, name, password, salt FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Password, &user.Salt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
