// Package requesttime pins a single "now" to each HTTP request. Everything
// downstream reads it through requestcontext.Now, so a submission's stored
// timestamp, its log line, and its emitted event all carry the same instant.
package requesttime

import (
	"net/http"
	"time"

	"tapclaim/pkg/requestcontext"
)

// Middleware captures the wall clock once, before any handler work runs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
