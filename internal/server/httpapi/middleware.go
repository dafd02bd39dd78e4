package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/oxylize/api/internal/common"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userIDFrom returns the authenticated user id installed by the auth
// middleware, or "" for unauthenticated requests.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// TokenAuthenticator verifies an access token and returns the user id.
type TokenAuthenticator interface {
	AuthenticateAccess(token string) (string, error)
}

// requireAuth extracts the bearer token from the Authorization header
// and installs the user id into the request context.
func requireAuth(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeError(w, common.ErrUnauthorized)
				return
			}

			userID, err := auth.AuthenticateAccess(token)
			if err != nil {
				writeError(w, common.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

// cors answers preflight requests and stamps the allow headers for
// requests from configured origins.
func cors(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; ok || wildcard {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
