package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/http/middlewarectx"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/services/session"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Subscribe(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	sess := &session.Session{
		Token: "tok-1",
		User:  &models.User{UID: "uid-1", Username: "alice", SubscriptionStatus: models.StatusExpired},
	}

	t.Run("subscribes the session owner", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Subscribe", mock.Anything, "uid-1").
			Return(&models.User{UID: "uid-1", SubscriptionStatus: models.StatusActive}, nil).Once()
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/api/subscription/subscribe", nil)
		req = req.WithContext(middlewarectx.WithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status string          `json:"status"`
			Data   models.UserView `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.StatusActive, resp.Data.SubscriptionStatus)
		serviceMock.AssertExpectations(t)
	})

	t.Run("rejects a request without a session", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))

		req := httptest.NewRequest(http.MethodPost, "/api/subscription/subscribe", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("service failure yields 500", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("Subscribe", mock.Anything, "uid-1").
			Return(nil, errors.New("db down")).Once()
		handler := New(newNoopLogger(), serviceMock)

		req := httptest.NewRequest(http.MethodPost, "/api/subscription/subscribe", nil)
		req = req.WithContext(middlewarectx.WithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
