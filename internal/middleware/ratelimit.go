package middleware

import (
	"net"
	"net/http"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
	"github.com/atinyakov/TaskKeeper/internal/ratelimit"
)

// unknownClientKey is shared by every request whose peer address cannot
// be resolved. All such clients contend for one bucket; a single one of
// them can exhaust it for the rest.
const unknownClientKey = "unknown"

// RateLimit guards an endpoint with the given sliding-window limiter,
// keyed by client network address. Rejected requests receive the 429
// envelope and are not recorded against the window.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				apperr.Write(w, apperr.RateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey derives the limiter key from the request's peer address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return unknownClientKey
	}
	return host
}
