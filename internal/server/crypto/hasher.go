package crypto

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Hasher runs the cost-parameterized password hash with a bound on how many
// computations may execute at once, keeping a burst of logins from starving
// the request-handling goroutines.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher returns a Hasher allowing at most maxConcurrent simultaneous
// hash computations. Values below 1 are treated as 1.
func NewHasher(maxConcurrent int64) *Hasher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Hasher{sem: semaphore.NewWeighted(maxConcurrent)}
}

// Hash computes the salted bcrypt hash of password, waiting for a slot if
// the pool is saturated. The wait is cancellable through ctx.
func (h *Hasher) Hash(ctx context.Context, password, salt string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)
	return HashPassword(password, salt)
}

// Verify checks password against the stored hash under the same
// concurrency bound as Hash.
func (h *Hasher) Verify(ctx context.Context, password, salt, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)
	return VerifyPassword(password, salt, hash), nil
}
