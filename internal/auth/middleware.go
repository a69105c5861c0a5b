package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is unexported so only this package can read or write the
// user id stored in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// Verifier is the part of TokenService the middleware needs.
type Verifier interface {
	Verify(token string) (string, bool)
}

// RequireAuth guards routes that need a known user.
//
// It reads "Authorization: Bearer <token>". A missing header, a header in
// another scheme and a token that fails verification all end the request
// with 401. On success the user id is stored in the request context.
func RequireAuth(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := extractUserID(r, tokens)
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth attaches the user id when a valid token is present and
// otherwise lets the request through as anonymous. Public reads use it so
// that likes info can report the caller's own reaction.
func OptionalAuth(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := extractUserID(r, tokens); ok {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID stores userID in ctx. Handlers never call it; tests do.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID parses the bearer token and verifies it.
func extractUserID(r *http.Request, tokens Verifier) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return tokens.Verify(token)
}
