// Package paymentlist implements the back-office endpoint listing the
// payment ledger, optionally filtered by username.
package paymentlist

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

// Handler handles ledger reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the ledger listing.
type Service interface {
	ListPayments(ctx context.Context) ([]*models.Payment, error)
	ListPaymentsByUsername(ctx context.Context, username string) ([]*models.Payment, error)
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List payments
// @Description Returns ledger rows, newest first, optionally filtered by the username query parameter.
// @Tags Admin
// @Produce json
// @Param username query string false "Filter by account handle"
// @Success 200 {array} models.Payment
// @Router /api/admin/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.paymentlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var (
		payments []*models.Payment
		err      error
	)
	if username := r.URL.Query().Get("username"); username != "" {
		payments, err = h.service.ListPaymentsByUsername(r.Context(), username)
	} else {
		payments, err = h.service.ListPayments(r.Context())
	}
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}

	render.JSON(w, r, response.OKWithData(payments))
}
