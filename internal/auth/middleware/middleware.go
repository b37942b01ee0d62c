package middleware

import (
	"net/http"
	"strings"

	"github.com/tenurehq/tenure-backend/internal/auth/jwt"
	"github.com/tenurehq/tenure-backend/pkg/actor"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
)

// RequireAuth validates the bearer token and attaches the authenticated
// actor to the request context. Requests without a valid token are rejected.
func RequireAuth(manager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputil.Error(w, errors.Unauthorized("missing bearer token"))
				return
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				httputil.Error(w, err)
				return
			}

			a := &actor.Actor{
				EmployeeNo: claims.EmpNo,
				Username:   claims.Username,
				Name:       claims.Name,
			}

			next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), a)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
