// Package get implements the public HTTP handler that serves a profile
// page document by username.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles public profile reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the profile read.
type Service interface {
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Public profile page
// @Description Returns the normalized profile document of a username. Unpublished pages 404.
// @Tags Profile
// @Produce json
// @Param username path string true "Profile handle"
// @Success 200 {object} models.Profile
// @Failure 404 {object} response.Response "Unknown or unpublished profile"
// @Router /api/profiles/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	p, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load profile"))
		return
	}
	if !p.IsPublished {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("profile not found"))
		return
	}

	render.JSON(w, r, response.OKWithData(p))
}
