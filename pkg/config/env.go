// Package config provides small environment-variable helpers for loaders
// that want a plain default instead of the warn-and-record machinery in
// internal/pkg/config.
package config

import (
	"log/slog"
	"os"
)

// GetEnvString returns the environment variable value, or defaultValue
// when the variable is unset or empty. No validation, no logging.
//
//	baseURL := GetEnvString("ENRICHMENT_BASE_URL", "https://api.deepseek.com/v1")
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvBool parses the environment variable as a boolean. Unset, empty
// or unrecognized values fall back to defaultValue; unrecognized values
// additionally log a warning so typos like "yes" are visible.
//
//	enabled := GetEnvBool("EXCERPT_FETCH_ENABLED", false)
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	switch valueStr {
	case "1", "t", "T", "true", "TRUE", "True":
		return true
	case "0", "f", "F", "false", "FALSE", "False":
		return false
	default:
		slog.Warn("invalid boolean value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
}
