package config

import (
	"os"
	"strconv"
	"time"

	"github.com/imamik/gearpump-broker/internal/util/ptr"
)

// Environment variables that override values from the configuration file.
const (
	EnvIdentityClientSecret = "GEARPUMP_BROKER_IDENTITY_CLIENT_SECRET"
	EnvStoreAccessKey       = "GEARPUMP_BROKER_STORE_ACCESS_KEY"
	EnvStoreSecretKey       = "GEARPUMP_BROKER_STORE_SECRET_KEY"
	EnvHTTPTimeout          = "GEARPUMP_BROKER_HTTP_TIMEOUT"
	EnvMaxRetryCount        = "GEARPUMP_BROKER_VALIDATION_MAX_RETRY_COUNT"
	EnvRetryInterval        = "GEARPUMP_BROKER_VALIDATION_RETRY_INTERVAL_SECONDS"
	EnvRetryEnabled         = "GEARPUMP_BROKER_VALIDATION_RETRY_ENABLED"
)

// applyEnv overrides configuration values from environment variables.
// Unset or unparsable variables leave the current value in place.
func (c *Config) applyEnv() {
	c.Identity.ClientSecret = parseString(EnvIdentityClientSecret, c.Identity.ClientSecret)
	c.Store.AccessKey = parseString(EnvStoreAccessKey, c.Store.AccessKey)
	c.Store.SecretKey = parseString(EnvStoreSecretKey, c.Store.SecretKey)
	c.Platform.HTTPTimeout = parseDuration(EnvHTTPTimeout, c.Platform.HTTPTimeout)

	v := &c.Dashboard.Validation
	v.MaxRetryCount = parseInt(EnvMaxRetryCount, v.MaxRetryCount)
	v.RetryIntervalSeconds = parseInt(EnvRetryInterval, v.RetryIntervalSeconds)
	if val := os.Getenv(EnvRetryEnabled); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			v.RetryEnabled = ptr.Bool(b)
		}
	}
}

func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
