// Package common defines shared constants and sentinel errors used across
// the FinanceVault backend. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Asymmetric transport codec errors. All of these collapse to the same
	// opaque client-facing response at the HTTP boundary.
	ErrorMalformedKey     = errors.New("malformed rsa key")
	ErrorInvalidBase64    = errors.New("invalid base64 payload")
	ErrorDecryptionFailed = errors.New("decryption failed")
	ErrorInvalidPayload   = errors.New("decrypted payload is not valid text")

	// Password codec errors.
	ErrorHashing = errors.New("hashing error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
