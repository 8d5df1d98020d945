package keys

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

func (r *PostgresRepository) Create(ctx context.Context, key *models.Key) error {

	query :=
		`INSERT INTO keys (id, name, private_key)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, key.ID, key.Name, key.PrivateKey); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Key, error) {
	query :=
		`SELECT id, name, private_key FROM keys
		 WHERE name = $1
		 `

	key := &models.Key{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&key.ID, &key.Name, &key.PrivateKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return key, nil
}
