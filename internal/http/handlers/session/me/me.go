// Package me implements the HTTP handler that returns the logged-in
// account and its page. The subscription expiry check has already run in
// the session middleware by the time this handler executes.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// Handler handles HTTP requests for the current session.
type Handler struct {
	log *slog.Logger
}

// New creates a Handler with the given logger.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Current session
// @Description Returns the logged-in account with its profile, after the lazy subscription check.
// @Tags Session
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.Response "No active session"
// @Router /api/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":    models.NewUserView(sess.User),
		"profile": sess.Profile,
	}))
}
