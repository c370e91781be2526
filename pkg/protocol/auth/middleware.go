package auth

import (
	"context"
	"net/http"
	"strings"

	apierr "github.com/docforge/docforge/pkg/protocol/apierr"
)

type contextKey int

const claimsContextKey contextKey = iota

// Middleware validates the Authorization: Bearer header against tm when tm
// is non-nil. A nil TokenManager means auth is not configured, and every
// request passes through unauthenticated — the off-by-default stance.
func Middleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tm == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				apierr.WriteUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				apierr.WriteUnauthorized(w, "invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the validated claims a prior Middleware call
// attached to the request context, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}
