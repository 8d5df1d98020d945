package models

import "time"

// InvalidJWT is a revocation row. A token's presence here makes it
// unusable regardless of signature validity. Exp is copied from the
// token's own expiry claim so the row can be swept once it is redundant.
type InvalidJWT struct {
	ID    string
	Token string
	Exp   time.Time
}
