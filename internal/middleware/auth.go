package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"app/internal/util"
)

type contextKey string

// UserContextKey holds the authenticated user's email.
const UserContextKey = contextKey("user")

// AuthMiddleware verifies the Bearer token and stores the subject email in
// the request context.
func AuthMiddleware(jwtSecret string, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := util.ValidateJWT(token, jwtSecret)
			if err != nil {
				log.Debug().Err(err).Msg("Rejected session token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
