package crypto

import (
	"crypto/rand"
	"math/big"

	"github.com/financevault/backend/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const saltLength = 32

const saltAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// HashPassword concatenates password and salt (password first) and applies
// bcrypt at the default cost. The stored salt defeats precomputed-table
// attacks; bcrypt's own per-invocation salt is not relied upon for that.
func HashPassword(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", common.ErrorHashing
	}
	return string(hash), nil
}

// VerifyPassword recomputes the salted input and compares it against the
// stored hash using bcrypt's constant-time comparison. Raw strings are
// never compared.
func VerifyPassword(password, salt, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+salt)) == nil
}

// GenerateSalt returns a 32-character string drawn uniformly from the
// alphanumeric alphabet using the system CSPRNG. It panics only if the
// random source fails.
func GenerateSalt() string {
	max := big.NewInt(int64(len(saltAlphabet)))
	b := make([]byte, saltLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = saltAlphabet[n.Int64()]
	}
	return string(b)
}
