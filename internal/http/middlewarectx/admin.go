package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	jwtmaker "github.com/Theailaunchapd/Vib3-link/internal/lib/jwt"
)

const adminKey ctxKey = "admin"

// AdminJWTMiddleware gates the back-office routes: it requires a bearer JWT
// signed by us and carrying the admin role.
func AdminJWTMiddleware(log *slog.Logger, maker jwtmaker.Maker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authorization required"))
				return
			}

			claims, err := maker.ParseToken(token)
			if err != nil || claims.Role != jwtmaker.RoleAdmin {
				log.Info("rejected admin token")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// AdminFromContext returns the admin username put there by
// AdminJWTMiddleware.
func AdminFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(adminKey).(string)
	return name, ok
}
