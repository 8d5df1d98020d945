// Package crypto implements the two credential codecs: the RSA transport
// codec that lets clients send passwords encrypted against a server-held
// key, and the salted bcrypt password codec.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"unicode/utf8"

	"github.com/financevault/backend/internal/common"
)

const rsaKeyBits = 2048

const (
	pemTypePrivate = "RSA PRIVATE KEY"
	pemTypePublic  = "RSA PUBLIC KEY"
)

// KeyPair holds a named-key's material in PKCS#1 PEM text form. Only the
// private half is ever persisted; the public half is always derivable.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
}

// GenerateKeyPair produces a fresh 2048-bit RSA key and encodes both halves
// as PKCS#1 PEM with LF line endings.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, err
	}
	return encodeKeyPair(priv), nil
}

// KeyPairFromPrivate parses a PKCS#1 PEM private key and re-derives the
// matching public key. Text that does not parse as a valid RSA private key
// yields common.ErrorMalformedKey.
func KeyPairFromPrivate(privatePEM string) (*KeyPair, error) {
	priv, err := parsePrivateKey(privatePEM)
	if err != nil {
		return nil, err
	}
	return encodeKeyPair(priv), nil
}

// DecryptPassword base64-decodes ciphertextB64 and RSA-OAEP-decrypts it with
// SHA-256 using the given private key, returning the plaintext password.
//
// Error cases are distinguished for callers (decode vs. decrypt vs. payload)
// but must collapse to one opaque response at the HTTP boundary so they do
// not form a padding oracle.
func DecryptPassword(ciphertextB64 string, privatePEM string) (string, error) {
	priv, err := parsePrivateKey(privatePEM)
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", common.ErrorInvalidBase64
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ciphertext, nil)
	if err != nil {
		return "", common.ErrorDecryptionFailed
	}

	if !utf8.Valid(plaintext) {
		return "", common.ErrorInvalidPayload
	}

	return string(plaintext), nil
}

func parsePrivateKey(privatePEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privatePEM))
	if block == nil || block.Type != pemTypePrivate {
		return nil, common.ErrorMalformedKey
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, common.ErrorMalformedKey
	}
	return priv, nil
}

func encodeKeyPair(priv *rsa.PrivateKey) *KeyPair {
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  pemTypePrivate,
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  pemTypePublic,
		Bytes: x509.MarshalPKCS1PublicKey(&priv.PublicKey),
	})
	return &KeyPair{PrivateKey: string(privPEM), PublicKey: string(pubPEM)}
}
