// Package promolist implements the back-office endpoint listing all promo
// codes with their usage counters.
package promolist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// Handler handles the promo code listing.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the listing.
type Service interface {
	List(ctx context.Context) ([]*models.PromoCode, error)
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List promo codes
// @Description Returns all promo codes, newest first.
// @Tags Admin
// @Produce json
// @Success 200 {array} models.PromoCode
// @Router /api/admin/promo [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.promolist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	codes, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list promo codes", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list promo codes"))
		return
	}

	render.JSON(w, r, response.OKWithData(codes))
}
