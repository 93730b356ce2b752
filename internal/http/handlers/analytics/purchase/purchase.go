// Package purchase implements the public checkout endpoint of a product
// block.
package purchase

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
	purchaseService "github.com/Theailaunchapd/Vib3-link/internal/services/purchase"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles product checkouts.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the checkout flow.
type Service interface {
	Checkout(ctx context.Context, username, itemID string, selected map[string]string) (float64, error)
}

// DummyPurchase carries the checkout request before validation. Selected
// maps variation id to the chosen option id.
type DummyPurchase struct {
	ItemID   string            `json:"item_id" validate:"required"`
	Selected map[string]string `json:"selected"`
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
// @Summary Buy a product block
// @Description Prices the selected variations server-side, records the sale and credits the seller's revenue.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param username path string true "Seller handle"
// @Param request body DummyPurchase true "Product and selected options"
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.Response "Unknown seller or product"
// @Failure 422 {object} response.Response "Bad variation selection"
// @Router /api/analytics/{username}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.purchase"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req DummyPurchase
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
	amount, err := h.service.Checkout(r.Context(), username, req.ItemID, req.Selected)
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, purchaseService.ErrNotAProduct),
		errors.Is(err, purchaseService.ErrInactiveProduct):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	case err != nil:
		log.Error("failed checkout", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("could not complete purchase"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"amount": amount,
	}))
}
