package httpapi

import (
	"net/http"
	"strings"

	"github.com/cityplay/activity-booking-api/internal/app/auth"
)

// NewAuthMiddleware enforces Authorization: Bearer <JWT> and stores the
// resolved user in request context.
//
// Every failure mode (missing header, malformed header, bad or expired token,
// deleted account) produces the identical 401 so callers learn nothing about
// which check failed. A request with no usable bearer token is rejected
// before any store access.
func NewAuthMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}

			u, err := svc.ResolveToken(r.Context(), raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, prefix))
}
