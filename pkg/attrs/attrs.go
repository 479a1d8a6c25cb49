// Package attrs reads values back out of slog-style key-value attribute
// slices. The registration service builds one attribute slice per accepted
// submission and uses it for both the audit log line and the emitted event,
// so the two can never disagree.
package attrs

// ExtractString returns the string value following key in attrs, which must
// alternate key, value, key, value. Missing keys and non-string values yield
// the empty string.
func ExtractString(attrs []any, key string) string {
	for i := 0; i+1 < len(attrs); i += 2 {
		k, ok := attrs[i].(string)
		if !ok || k != key {
			continue
		}
		if v, ok := attrs[i+1].(string); ok {
			return v
		}
		return ""
	}
	return ""
}
