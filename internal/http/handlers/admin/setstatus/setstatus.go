// Package setstatus implements the back-office endpoint that force-sets an
// account's subscription status.
package setstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles status overrides.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the override.
type Service interface {
	AdminSetStatus(ctx context.Context, userUID, status string) (*models.User, error)
}

// DummySetStatus carries the target status.
type DummySetStatus struct {
	Status string `json:"status" validate:"required,oneof=trial active expired skool_member promo_access"`
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
// @Summary Set subscription status
// @Description Force-sets an account's subscription status. Setting active clears any scheduled expiry.
// @Tags Admin
// @Accept json
// @Produce json
// @Param uid path string true "Account UID"
// @Param request body DummySetStatus true "Target status"
// @Success 200 {object} models.UserView
// @Failure 404 {object} response.Response "Unknown account"
// @Router /api/admin/users/{uid}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.setstatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummySetStatus
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

	uid := chi.URLParam(r, "uid")
	user, err := h.service.AdminSetStatus(r.Context(), uid, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to set status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not set status"))
		return
	}

	render.JSON(w, r, response.OKWithData(models.NewUserView(user)))
}
