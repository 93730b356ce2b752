// Package movecontent implements the HTTP handler that reorders one block
// of the creator's content list.
package movecontent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/services/profile"
)

// Handler handles content reordering.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the reorder operation.
type Service interface {
	MoveContent(ctx context.Context, username, itemID, direction string) (*models.Profile, error)
}

// DummyMove carries the reorder request before validation.
type DummyMove struct {
	ItemID    string `json:"item_id" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=up down top"`
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
// @Summary Move a content block
// @Description Moves one block of the creator's content list up, down, or to the top.
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body DummyMove true "Block id and direction"
// @Success 200 {object} models.Profile
// @Failure 404 {object} response.Response "Unknown block id"
// @Router /api/profile/content/move [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.movecontent"
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

	var req DummyMove
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

	p, err := h.service.MoveContent(r.Context(), sess.User.Username, req.ItemID, req.Direction)
	if err != nil {
		if errors.Is(err, profile.ErrItemNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content item not found"))
			return
		}
		log.Error("failed to move content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not move content"))
		return
	}

	render.JSON(w, r, response.OKWithData(p))
}
