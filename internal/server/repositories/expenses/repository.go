// Package expenses provides persistence for the expense resource. Every
// read and write is scoped to the owning user.
package expenses

import (
	"context"

	"github.com/financevault/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)

	// GetByID returns the expense only if it belongs to userID, otherwise
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id, userID string) (*models.Expense, error)

	ListByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// Update persists the mutable fields of an expense the user owns;
	// common.ErrorNotFound if no such row.
	Update(ctx context.Context, expense *models.Expense) (*models.Expense, error)

	// Delete removes the expense if the user owns it; common.ErrorNotFound
	// if no such row.
	Delete(ctx context.Context, id, userID string) error
}
