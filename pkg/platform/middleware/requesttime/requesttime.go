// Package requesttime pins a single "now" for everything done while serving
// one request.
package requesttime

import (
	"net/http"
	"time"

	"registrar/pkg/requestcontext"
)

// Middleware stores the arrival time in the request context. Handlers and the
// services they call read it back with requestcontext.Now.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareWithClock is Middleware with an injectable clock.
func MiddlewareWithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
