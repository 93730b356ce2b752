// Package applypromo implements the HTTP handler that redeems a promo
// code for an already registered account.
package applypromo

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

// Handler handles promo application for existing accounts.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the redeem-and-apply operation.
type Service interface {
	ApplyPromo(ctx context.Context, userUID, code string) (*models.User, error)
}

// DummyApply carries the code to redeem.
type DummyApply struct {
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
// @Summary Apply a promo code
// @Description Redeems a code for the logged-in account and applies the granted access.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body DummyApply true "Promo code"
// @Success 200 {object} models.UserView
// @Failure 422 {object} response.Response "Unknown, disabled or exhausted code"
// @Router /api/subscription/promo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.applypromo"
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

	var req DummyApply
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

	user, err := h.service.ApplyPromo(r.Context(), sess.User.UID, req.Code)
	switch {
	case errors.Is(err, repository.ErrPromoNotFound),
		errors.Is(err, repository.ErrPromoInactive),
		errors.Is(err, repository.ErrPromoLimitReached):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("promo code is not valid"))
		return
	case err != nil:
		log.Error("failed to apply promo", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not apply promo code"))
		return
	}

	render.JSON(w, r, response.OKWithData(models.NewUserView(user)))
}
