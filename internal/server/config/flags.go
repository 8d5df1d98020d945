package config

import (
	"flag"
	"os"
	"time"

	"github.com/financevault/backend/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-p int      revocation purge interval, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes and then converted to
// time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	tokenPurgeInterval := fs.Int("p", int(config.TokenPurgeInterval.Minutes()), "token_purge_interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
	config.TokenPurgeInterval = time.Duration(*tokenPurgeInterval) * time.Minute
}
