package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// ContextKeyAPIKey is the context key for the API key
	ContextKeyAPIKey ContextKey = "api_key"
)

// APIKeyAuth returns middleware that validates the x-api-key header
// against the configured key.
func APIKeyAuth(apiKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for OPTIONS requests (CORS preflight)
			if r.Method == "OPTIONS" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("x-api-key")
			if key == "" {
				http.Error(w, `{"status":"error","detail":"missing x-api-key header"}`, http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				http.Error(w, `{"status":"error","detail":"Invalid API key"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey returns the API key from context
func GetAPIKey(ctx context.Context) string {
	if key, ok := ctx.Value(ContextKeyAPIKey).(string); ok {
		return key
	}
	return ""
}
