// Package keys provides persistence for named RSA key pairs. Only private
// key material is stored; public halves are derived on load.
package keys

import (
	"context"

	"github.com/financevault/backend/internal/server/models"
)

type Repository interface {
	// Create inserts a new key pair row. A name collision yields
	// common.ErrorAlreadyExists; callers handling the lazy-creation race
	// fall back to re-reading the winner's row.
	Create(ctx context.Context, key *models.Key) error

	// GetByName returns the key row with the given name, or
	// common.ErrorNotFound.
	GetByName(ctx context.Context, name string) (*models.Key, error)
}
