package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"tapclaim/pkg/requestcontext"
)

// RequestIDHeader carries the request ID between services and back to clients.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request an identifier. An inbound X-Request-ID is
// honored so IDs correlate across services; otherwise a new UUID is minted.
// The ID is stored in the context and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
