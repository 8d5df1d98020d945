// Package invalidjwts provides the revocation registry: tokens recorded
// here are rejected even while their signature still verifies.
package invalidjwts

import (
	"context"
	"time"

	"github.com/financevault/backend/internal/server/models"
)

type Repository interface {
	// Add records a revoked token together with its own expiry claim.
	// Re-revoking an already-revoked token is harmless; lookup is
	// existence-based.
	Add(ctx context.Context, record *models.InvalidJWT) error

	// Exists reports whether the exact token string has been revoked.
	Exists(ctx context.Context, token string) (bool, error)

	// DeleteExpired removes records whose expiry is before now and returns
	// the number deleted. Safe to run concurrently with lookups: a deleted
	// record denies nothing new, the expiry check already rejects it.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
