// Package auth issues and verifies the signed identity tokens handed to
// clients after registration and login. It is stateless: revocation and
// expiry policy composition live with the caller.
package auth

import (
	"errors"
	"time"

	"github.com/financevault/backend/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an identity token: the registered
// claims (sub/exp/iat) plus the account id and name.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken builds Claims for the given account and signs them with
// HMAC-SHA256. Expiry is always issued-at plus validityDuration.
func GenerateToken(userID, username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature of tokenString against secretKey and
// decodes its claims. An expired token yields common.ErrTokenExpired; any
// other structural or signature problem yields common.ErrInvalidToken.
//
// A valid signature alone is not sufficient for acceptance: callers must
// still consult the revocation registry and recompute the expiry check.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
