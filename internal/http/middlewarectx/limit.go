package middlewarectx

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
)

// RateLimitMiddleware applies a global token-bucket limit. It sits in front
// of the auth and tracking endpoints, which take unauthenticated traffic.
func RateLimitMiddleware(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
