// Package middlewarectx carries authentication middleware: resolution of
// creator session tokens, the admin JWT gate and request rate limiting.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/services/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionResolver resolves an opaque token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// BearerToken extracts the bearer token of a request, or "".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// SessionMiddleware requires a valid creator session and puts it on the
// request context. The expiry check runs inside the resolver, so handlers
// downstream always see a settled subscription status.
func SessionMiddleware(log *slog.Logger, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization required"))
				return
			}

			sess, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("session expired"))
					return
				}
				log.Error("failed to resolve session", sl.Err(err),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		}
		return http.HandlerFunc(fn)
	}
}

// WithSession puts a resolved session on a context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the resolved session put there by
// SessionMiddleware.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}
