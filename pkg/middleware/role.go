package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// RequireRole gates a route group to a single role. It must be applied after
// AuthMiddleware, which puts the claims into the request context.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role != role {
				logrus.WithFields(logrus.Fields{
					"userID":   claims.UserID,
					"role":     claims.Role,
					"required": role,
				}).Warn("Role mismatch on protected route")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
