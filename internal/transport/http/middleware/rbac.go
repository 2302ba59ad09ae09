package middleware

import (
	"net/http"
	"slices"

	"hrdash/internal/transport/http/api"
)

// RequireRole rejects anonymous requests with 401 and principals outside
// roles with 403. With no roles, any authenticated principal passes.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, user.RoleName) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
