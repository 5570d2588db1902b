// Package validation holds the format predicates and field whitelist
// checks applied to every write before any storage access.
package validation

import (
	"net"
	"sort"

	"github.com/google/uuid"
)

// IsUUID reports whether s is a canonical 36-character UUID.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsIP reports whether s is a valid IPv4 or IPv6 address.
func IsIP(s string) bool {
	return net.ParseIP(s) != nil
}

// UnknownFields returns the keys of fields that are not in the allowed
// set, sorted for stable error messages. An empty result means the
// payload touches mutable fields only.
func UnknownFields(allowed []string, fields map[string]any) []string {
	var unknown []string
	for key := range fields {
		found := false
		for _, name := range allowed {
			if key == name {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
