package models

// Key is a named RSA key pair row. Only the private half is stored; the
// public half is recomputed from it on load.
type Key struct {
	ID         string
	Name       string
	PrivateKey string
}
