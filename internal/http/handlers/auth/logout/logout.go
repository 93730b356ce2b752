// Package logout implements the HTTP handler that invalidates a session
// token.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
)

// Handler handles HTTP requests for logout.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes session invalidation.
type Service interface {
	Destroy(ctx context.Context, token string) error
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Log out
// @Description Invalidates the presented session token. Idempotent.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := middlewarectx.BearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authorization required"))
		return
	}
	if err := h.service.Destroy(r.Context(), token); err != nil {
		log.Error("failed to destroy session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not log out"))
		return
	}

	render.JSON(w, r, response.OK())
}
