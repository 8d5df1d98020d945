package expenses

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

func (r *PostgresRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {

	query :=
		`INSERT INTO expenses (id, user_id, description, amount, date, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		expense.ID, expense.UserID, expense.Description, expense.Amount, expense.Date, expense.Category); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return expense, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Expense, error) {
	query :=
		`SELECT id, user_id, description, amount, date, category FROM expenses
		 WHERE id = $1 AND user_id = $2
		 `

	e := &models.Expense{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Date, &e.Category)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	query :=
		`SELECT id, user_id, description, amount, date, category FROM expenses
		 WHERE user_id = $1
		 ORDER BY date DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Expense, 0)
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Date, &e.Category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	query :=
		`UPDATE expenses
		 SET description = $1, amount = $2, date = $3, category = $4
		 WHERE id = $5 AND user_id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		expense.Description, expense.Amount, expense.Date, expense.Category, expense.ID, expense.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return expense, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query :=
		`DELETE FROM expenses
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
