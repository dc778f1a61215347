package httpapi

import "net/http"

// NewAvailabilityMiddleware gates data-touching routes on the store
// connectivity flag. While the store is unreachable the API stays up and
// answers 503 rather than letting requests hit a dead pool.
func NewAvailabilityMiddleware(connected func() bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !connected() {
				writeError(w, http.StatusServiceUnavailable, "Database connection unavailable")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
