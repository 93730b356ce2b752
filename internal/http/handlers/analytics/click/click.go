// Package click implements the public tracking endpoint for content block
// clicks.
package click

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
)

// Handler handles click tracking.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the click counter.
type Service interface {
	RecordClick(ctx context.Context, username, itemID string) error
}

// DummyClick carries the clicked block id.
type DummyClick struct {
	ItemID string `json:"item_id" validate:"required"`
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Track a block click
// @Description Counts one click on a content block of a public page.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param username path string true "Profile handle"
// @Param request body DummyClick true "Clicked block"
// @Success 200 {object} response.Response
// @Router /api/analytics/{username}/click [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.click"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyClick
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.service.RecordClick(r.Context(), username, req.ItemID); err != nil {
		log.Error("failed to record click", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record click"))
		return
	}

	render.JSON(w, r, response.OK())
}
