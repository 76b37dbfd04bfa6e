// Package env reads raw process environment variables. It covers the few
// knobs (like LOG_FORMAT) that must be readable before the envconfig-managed
// Config has been loaded.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
