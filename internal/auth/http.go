// ABOUTME: HTTP middleware for JWT authentication on admin API endpoints
// ABOUTME: Extracts the token from the Authorization header and stores the Principal on the request

package auth

import (
	"errors"
	"net/http"
	"strings"
)

// extractToken extracts a token from the Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
// Returns the token and an error message (empty if successful).
func extractToken(authHeader string) (string, string) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", "Authorization header required"
	}
	token := authHeader
	if len(authHeader) >= 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		token = strings.TrimSpace(authHeader[7:])
	}
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// HTTPAuthMiddleware creates an HTTP middleware that requires a valid admin token.
// On success the Principal is stored on the request context.
func HTTPAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				writeUnauthorized(w, errMsg)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					writeUnauthorized(w, "Token expired")
					return
				}
				writeUnauthorized(w, "Invalid token")
				return
			}

			p := &Principal{
				Subject:   claims.Subject,
				Admin:     claims.Admin,
				ExpiresAt: claims.ExpiresAt,
			}
			if !p.IsAdmin() {
				writeUnauthorized(w, "Admin token required")
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
