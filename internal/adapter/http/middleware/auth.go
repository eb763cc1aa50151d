package middleware

import (
	"context"
	"net/http"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// UserIDContextKey is the context key for the acting user.
	UserIDContextKey ContextKey = "user_id"

	// UserIDHeader identifies the acting user. Authentication itself happens
	// at the gateway; this service only records who acted.
	UserIDHeader = "X-User-ID"
)

// Auth extracts the acting user from the request headers. Mutating requests
// without a user are rejected, since every ledger movement must record who
// moved the cash.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)

		if userID == "" && r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "missing "+UserIDHeader+" header", http.StatusUnauthorized)
			return
		}

		if userID != "" {
			ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// UserID extracts the acting user from context.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDContextKey).(string)
	return userID
}
