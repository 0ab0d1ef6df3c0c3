package middleware

import (
	"context"
	"errors"
	"net/http"
	"userhub/internal/common"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UsernameCtxKey contextKey = "username"

// Authenticator gates protected routes. jwtauth.Verifier has already parsed
// the Authorization header; this rejects missing/expired/tampered tokens and
// puts the bearer subject (username) on the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil || token == nil {
			switch {
			case errors.Is(err, jwtauth.ErrExpired):
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrExpiredToken.Error())
			case errors.Is(err, jwtauth.ErrNoTokenFound):
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			default:
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrInvalidSignature.Error())
			}
			return
		}

		username, ok := claims["sub"].(string)
		if !ok || username == "" {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: subject missing")
			return
		}

		ctx := context.WithValue(r.Context(), UsernameCtxKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUsernameFromContext returns the authenticated bearer subject.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameCtxKey).(string)
	return username, ok
}
