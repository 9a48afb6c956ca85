// Package env reads process settings that are needed before the envconfig
// tree is loaded.
package env

import (
	"os"
	"strings"
)

// Prefix namespaces every Bagzo variable.
const Prefix = "BAGZO_"

// Get returns BAGZO_<key>, then the bare key, then fallback. Blank values
// count as unset.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
