// Package strings supplements the standard library with the slice helpers
// the configuration layer needs.
package strings

import "strings"

// DedupeAndTrim trims whitespace from each element and drops empties and
// repeats, keeping first-seen order. Broker lists and similar comma-split
// config values pass through here so "a, b,a," collapses to ["a", "b"].
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	out := values[:0:0]
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
