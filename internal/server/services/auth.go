// Package services contains the orchestration layer between the HTTP
// boundary and the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/financevault/backend/internal/common"
	"github.com/financevault/backend/internal/dbx"
	"github.com/financevault/backend/internal/server/auth"
	"github.com/financevault/backend/internal/server/config"
	"github.com/financevault/backend/internal/server/crypto"
	"github.com/financevault/backend/internal/server/models"
	"github.com/financevault/backend/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AuthService is the credential orchestrator: it composes the key store,
// the transport and password codecs, the token authority, and the
// revocation registry into register/login/logout/profile operations.
type AuthService struct {
	db                    *sql.DB
	repos                 repomanager.RepositoryManager
	hasher                *crypto.Hasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher *crypto.Hasher, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                    db,
		repos:                 m,
		hasher:                hasher,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account from a username and an RSA-encrypted
// password and returns a signed identity token.
//
// The pre-insert existence check only provides the friendly error on the
// common path; the users.name unique index is the correctness backstop for
// two concurrent registrations, and a conflict on insert also surfaces as
// common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, encryptedPassword string) (string, error) {

	// cheap rejection before any crypto work; the transactional re-check
	// below handles the race
	if _, err := s.repos.Users(s.db).GetByName(ctx, username); err == nil {
		return "", common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("checking username: %w", err)
	}

	password, err := s.decryptPassword(ctx, encryptedPassword)
	if err != nil {
		return "", err
	}

	salt := crypto.GenerateSalt()
	hash, err := s.hasher.Hash(ctx, password, salt)
	if err != nil {
		return "", common.ErrorHashing
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     username,
		Password: hash,
		Salt:     salt,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if _, err := repo.GetByName(ctx, username); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		_, err := repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return "", err
	}

	return auth.GenerateToken(user.ID, user.Name, s.jwtSecret, s.tokenValidityDuration)
}

// Login verifies an RSA-encrypted password against the stored salted hash
// and returns a signed identity token. Unknown usernames yield
// common.ErrorNotFound, bad passwords common.ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, encryptedPassword string) (string, error) {

	user, err := s.repos.Users(s.db).GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("loading user: %w", err)
	}

	password, err := s.decryptPassword(ctx, encryptedPassword)
	if err != nil {
		return "", err
	}

	ok, err := s.hasher.Verify(ctx, password, user.Salt, user.Password)
	if err != nil {
		return "", common.ErrorHashing
	}
	if !ok {
		return "", common.ErrorInvalidCredentials
	}

	return auth.GenerateToken(user.ID, user.Name, s.jwtSecret, s.tokenValidityDuration)
}

// Logout revokes the presented token using the expiry carried in the
// token's own claims. The token must still verify; revoking a forged
// string would be meaningless.
func (s *AuthService) Logout(ctx context.Context, token string) error {

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return err
	}

	// exp is optional in JWT; a validly-signed token without one cannot
	// be revoked sensibly, so reject it
	if claims.ExpiresAt == nil {
		return common.ErrInvalidToken
	}

	record := &models.InvalidJWT{
		ID:    uuid.NewString(),
		Token: token,
		Exp:   claims.ExpiresAt.Time,
	}
	if err := s.repos.InvalidJWTs(s.db).Add(ctx, record); err != nil {
		return fmt.Errorf("recording revocation: %w", err)
	}

	return nil
}

// IsTokenRevoked reports whether the exact token string is on the
// revocation list.
func (s *AuthService) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return s.repos.InvalidJWTs(s.db).Exists(ctx, token)
}

// VerifyToken validates a bearer token's signature and expiry and returns
// its claims. It does not consult the revocation registry; the request
// authenticator composes both checks.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// GetUserByID returns the account record for a profile lookup, or
// common.ErrorNotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, id)
}

// GetOrCreateKeyPair loads the named RSA key pair, generating and
// persisting a fresh one on first use. When two instances race on the
// first use, the loser's insert hits the keys.name unique index and the
// winner's row is re-read, so all callers converge on one key.
func (s *AuthService) GetOrCreateKeyPair(ctx context.Context, name string) (*crypto.KeyPair, error) {

	repo := s.repos.Keys(s.db)

	key, err := repo.GetByName(ctx, name)
	if err == nil {
		return crypto.KeyPairFromPrivate(key.PrivateKey)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	// key generation is pure CPU work; only the insert commits anything
	pair, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	err = repo.Create(ctx, &models.Key{
		ID:         uuid.NewString(),
		Name:       name,
		PrivateKey: pair.PrivateKey,
	})
	if err == nil {
		return pair, nil
	}
	if !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, err
	}

	key, err = repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("re-reading key after insert conflict: %w", err)
	}
	return crypto.KeyPairFromPrivate(key.PrivateKey)
}

// GetPublicKey returns the PEM public half of the named key pair,
// creating the pair on first use.
func (s *AuthService) GetPublicKey(ctx context.Context, name string) (string, error) {
	pair, err := s.GetOrCreateKeyPair(ctx, name)
	if err != nil {
		return "", err
	}
	return pair.PublicKey, nil
}

// PurgeExpiredTokens deletes revocation records whose expiry has passed.
// Expired tokens are already rejected by the expiry check alone, so a
// swept record denies nothing new.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repos.InvalidJWTs(s.db).DeleteExpired(ctx, time.Now())
}

func (s *AuthService) decryptPassword(ctx context.Context, encryptedPassword string) (string, error) {
	pair, err := s.GetOrCreateKeyPair(ctx, common.MainKeyName)
	if err != nil {
		return "", err
	}
	return crypto.DecryptPassword(encryptedPassword, pair.PrivateKey)
}
