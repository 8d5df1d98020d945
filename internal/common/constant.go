package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

// MainKeyName is the name of the RSA key pair used to protect password
// transport. Created lazily on first use, never rotated.
const MainKeyName = "main"
