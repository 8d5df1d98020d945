package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Duration
// values accept anything time.ParseDuration does ("24h", "90m"); invalid
// values are ignored so a typo cannot silently shorten a token lifetime to
// zero.
//
// Recognized variables:
//
//	ADDRESS              HTTP bind address
//	DATABASE_DSN         PostgreSQL DSN
//	JWT_SECRET           HMAC signing secret
//	TOKEN_VALIDITY       identity token lifetime
//	TOKEN_PURGE_INTERVAL revocation sweep interval
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("TOKEN_PURGE_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenPurgeInterval = d
		}
	}
}
