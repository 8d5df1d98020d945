// Package users provides persistence for user accounts.
package users

import (
	"context"

	"github.com/financevault/backend/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A name collision (including one lost
	// to a concurrent insert) yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByName returns the account with the given (case-sensitive) name,
	// or common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*models.User, error)

	// GetByID returns the account with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
