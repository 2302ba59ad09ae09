package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrdash/internal/domain/auth"
	"hrdash/internal/requestctx"
)

type TokenAuthenticator interface {
	Authenticate(token string) (auth.UserContext, error)
}

// Auth attaches the bearer token's principal to the context. Requests with
// a missing or invalid token pass through anonymously.
func Auth(authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := authenticator.Authenticate(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithUser(r.Context(), user)))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	return requestctx.GetUser(ctx)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
