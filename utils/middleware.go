package utils

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenResolver resolves a bearer token to a user id.
type TokenResolver interface {
	ResolveToken(token string) (string, error)
}

// RequireAuth wraps a handler so it only runs for requests carrying a
// valid "Authorization: Bearer <token>" header, with the resolved user id
// stored in the request context.
func RequireAuth(resolver TokenResolver, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			JSONError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		userID, err := resolver.ResolveToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			JSONError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// CallerID returns the authenticated user id stored by RequireAuth, or ""
// for unauthenticated requests.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
