package invalidjwts

import (
	"context"
	"fmt"
	"time"

	"github.com/financevault/backend/internal/dbx"
	"github.com/financevault/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, record *models.InvalidJWT) error {
	query := `
		INSERT INTO invalid_jwts (id, token, exp)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, record.ID, record.Token, record.Exp); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, token string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM invalid_jwts WHERE token = $1)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM invalid_jwts
		WHERE exp < $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
