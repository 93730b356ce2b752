// Package register implements the HTTP handler for account signup.
//
// Handler accepts a JSON request with the signup form, validates it, runs
// the registration flow (optional promo redemption, account and starter
// page creation) and returns the session token with the created account.
package register

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
	"github.com/Theailaunchapd/Vib3-link/internal/services/auth"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles HTTP requests for account signup.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the signup flow.
type Service interface {
	Register(ctx context.Context, req models.DummyRegister) (*models.User, string, error)
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
// @Summary Create an account
// @Description Registers a new creator account, optionally redeeming a promo code, and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.DummyRegister true "Signup form"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.Response "Invalid JSON"
// @Failure 409 {object} response.Response "Email or username taken"
// @Failure 422 {object} response.Response "Validation or promo code error"
// @Router /api/auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRegister
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

	user, token, err := h.service.Register(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrUsernameTaken):
		log.Info("signup rejected", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrPromoNotFound),
		errors.Is(err, repository.ErrPromoInactive),
		errors.Is(err, repository.ErrPromoLimitReached):
		log.Info("signup promo rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("promo code is not valid"))
		return
	case err != nil:
		log.Error("failed to register account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create account"))
		return
	}

	log.Info("account registered", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  models.NewUserView(user),
	}))
}
