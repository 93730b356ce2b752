// Package view implements the public tracking endpoint for profile page
// views.
package view

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
)

// Handler handles view tracking.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the view counter.
type Service interface {
	RecordView(ctx context.Context, username string) error
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Track a page view
// @Description Counts one view of a public profile page.
// @Tags Analytics
// @Produce json
// @Param username path string true "Profile handle"
// @Success 200 {object} response.Response
// @Router /api/analytics/{username}/view [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.view"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	if err := h.service.RecordView(r.Context(), username); err != nil {
		log.Error("failed to record view", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record view"))
		return
	}

	render.JSON(w, r, response.OK())
}
