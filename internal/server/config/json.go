package config

import (
	"encoding/json"
	"os"

	"github.com/financevault/backend/internal/flagx"
	"github.com/financevault/backend/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	TokenPurgeInterval    timex.Duration `json:"token_purge_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags. If it
// is not set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics: a present-but-broken config file is a
// deployment error, not a condition to run past.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.TokenPurgeInterval.Duration != 0 {
		config.TokenPurgeInterval = c.TokenPurgeInterval.Duration
	}
}
