package models

import (
	"strings"
	"time"
)

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter is seconds until the window reopens; only set when not
	// allowed.
	RetryAfter int

	// Degraded marks results served by the in-memory fallback while the
	// primary store is unavailable.
	Degraded bool
}

// KeyForIP builds the submit bucket key for a client IP.
func KeyForIP(ip string) string {
	return "ratelimit:submit:ip:" + SanitizeKeySegment(ip)
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// to prevent key collision attacks where user-controlled identifiers
// containing ':' could manipulate adjacent rate limit buckets.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
