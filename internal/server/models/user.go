// Package models defines the persisted row types shared by repositories
// and services.
package models

// User is an account row. Password holds the salted bcrypt hash, never a
// cleartext password; Salt is generated once at registration and immutable
// thereafter. Neither field may appear in any externally serialized form.
type User struct {
	ID       string
	Name     string
	Password string
	Salt     string
}
