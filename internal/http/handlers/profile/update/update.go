// Package update implements the HTTP handler that saves the logged-in
// creator's page document.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/http/response"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// Handler handles profile saves.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the profile write.
type Service interface {
	Save(ctx context.Context, p *models.Profile) error
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Save the profile page
// @Description Persists the creator's page document. Owner and handle come from the session, not from the body.
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body models.Profile true "Page document"
// @Success 200 {object} models.Profile
// @Router /api/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
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

	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	// The document always belongs to the session owner, whatever the body
	// claims.
	p.UserID = sess.User.UID
	p.Username = sess.User.Username

	if err := h.service.Save(r.Context(), &p); err != nil {
		log.Error("failed to save profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save profile"))
		return
	}

	log.Info("profile saved", slog.String("username", p.Username))
	render.JSON(w, r, response.OKWithData(p))
}
