// Package promocreate implements the back-office endpoint creating a
// promo code.
package promocreate

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
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles promo code creation.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes promo creation.
type Service interface {
	Create(ctx context.Context, createdBy string, req models.DummyPromoCode) (*models.PromoCode, error)
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
// @Summary Create a promo code
// @Description Stores a new active promo code. The code is normalized to upper case.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.DummyPromoCode true "New promo code"
// @Success 200 {object} models.PromoCode
// @Failure 409 {object} response.Response "Code already exists"
// @Router /api/admin/promo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.promocreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPromoCode
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

	createdBy, _ := middlewarectx.AdminFromContext(r.Context())
	promo, err := h.service.Create(r.Context(), createdBy, req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("promo code already exists"))
			return
		}
		log.Error("failed to create promo code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create promo code"))
		return
	}

	render.JSON(w, r, response.OKWithData(promo))
}
