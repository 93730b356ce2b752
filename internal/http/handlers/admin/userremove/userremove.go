// Package userremove implements the back-office endpoint deleting an
// account together with its profile and analytics.
package userremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Handler handles account removal.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the cascading delete.
type Service interface {
	DeleteUser(ctx context.Context, userUID string) error
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Remove an account
// @Description Deletes an account with its profile and analytics records.
// @Tags Admin
// @Produce json
// @Param uid path string true "Account UID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Unknown account"
// @Router /api/admin/users/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if err := h.service.DeleteUser(r.Context(), uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to delete user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete user"))
		return
	}

	log.Info("user removed", slog.String("user_uid", uid))
	render.JSON(w, r, response.OK())
}
