// Package stats implements the dashboard endpoint returning the logged-in
// creator's analytics record.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// Handler handles analytics reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the analytics read.
type Service interface {
	Stats(ctx context.Context, username string) (*models.AnalyticsData, error)
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Dashboard analytics
// @Description Returns totals, per-block clicks and the rolling daily view history.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.AnalyticsData
// @Router /api/analytics/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.stats"
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

	record, err := h.service.Stats(r.Context(), sess.User.Username)
	if err != nil {
		log.Error("failed to load analytics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load analytics"))
		return
	}

	render.JSON(w, r, response.OKWithData(record))
}
