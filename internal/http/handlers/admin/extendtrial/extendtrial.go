// Package extendtrial implements the back-office endpoint pushing an
// account's trial deadline out.
package extendtrial

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

// Handler handles trial extensions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the extension.
type Service interface {
	AdminExtendTrial(ctx context.Context, userUID string, days int) (*models.User, error)
}

// DummyExtendTrial carries the number of days to add.
type DummyExtendTrial struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
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
// @Summary Extend a trial
// @Description Pushes an account's trial deadline out by the given number of days, keeping it in trial.
// @Tags Admin
// @Accept json
// @Produce json
// @Param uid path string true "Account UID"
// @Param request body DummyExtendTrial true "Days to add"
// @Success 200 {object} models.UserView
// @Failure 404 {object} response.Response "Unknown account"
// @Router /api/admin/users/{uid}/trial [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.extendtrial"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyExtendTrial
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
	user, err := h.service.AdminExtendTrial(r.Context(), uid, req.Days)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to extend trial", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not extend trial"))
		return
	}

	render.JSON(w, r, response.OKWithData(models.NewUserView(user)))
}
