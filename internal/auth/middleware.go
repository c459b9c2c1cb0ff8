package auth

import (
	"net/http"
	"strings"
	"time"

	"workorders/internal/api"
	"workorders/internal/user"
	"workorders/pkg/config"
)

// Middleware resolves the caller from the Authorization bearer token and
// attaches the user record to the request context.
//
// The user row is loaded per request so role changes take effect without
// waiting for token expiry.
func Middleware(cfg config.Config, users *user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			_, uid, err := VerifyToken(strings.TrimSpace(authz[7:]), cfg.JWTSecret, time.Now())
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			u, err := users.GetByID(r.Context(), uid)
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(api.WithUser(r.Context(), u)))
		})
	}
}

// RequireRole gates a route group on a minimum role. Must run after Middleware.
func RequireRole(min user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := api.UserFromContext(r.Context())
			if u == nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
				return
			}
			if !u.Role.AtLeast(min) {
				api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
