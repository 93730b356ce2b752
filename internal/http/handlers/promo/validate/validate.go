// Package validate implements the public HTTP handler behind the signup
// form's live promo code check. It classifies a code without consuming a
// use.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles promo code checks.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the read-only code check.
type Service interface {
	Validate(ctx context.Context, code string) (*models.PromoCode, error)
}

// DummyValidate carries the code to check.
type DummyValidate struct {
	Code string `json:"code" validate:"required,alphanum"`
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
// @Summary Check a promo code
// @Description Reports whether a code is redeemable and what it grants, without consuming a use.
// @Tags Promo
// @Accept json
// @Produce json
// @Param request body DummyValidate true "Promo code"
// @Success 200 {object} map[string]any
// @Failure 422 {object} response.Response "Unknown, disabled or exhausted code"
// @Router /api/promo/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.promo.validate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyValidate
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

	promo, err := h.service.Validate(r.Context(), req.Code)
	switch {
	case errors.Is(err, repository.ErrPromoNotFound),
		errors.Is(err, repository.ErrPromoInactive),
		errors.Is(err, repository.ErrPromoLimitReached):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("promo code is not valid"))
		return
	case err != nil:
		log.Error("failed to check promo code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check promo code"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"code":        promo.Code,
		"type":        promo.Type,
		"description": promo.Description,
	}))
}
