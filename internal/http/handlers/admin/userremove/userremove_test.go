package userremove

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) DeleteUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func doRequest(t *testing.T, handler *Handler, uid string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+uid, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uid", uid)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("removes an existing account", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("DeleteUser", mock.Anything, "uid-1").Return(nil).Once()

		rec := doRequest(t, New(newNoopLogger(), serviceMock), "uid-1")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		serviceMock.AssertExpectations(t)
	})

	t.Run("unknown account 404s", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("DeleteUser", mock.Anything, "ghost").
			Return(repository.ErrNotFound).Once()

		rec := doRequest(t, New(newNoopLogger(), serviceMock), "ghost")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure yields 500", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("DeleteUser", mock.Anything, "uid-1").
			Return(errors.New("db down")).Once()

		rec := doRequest(t, New(newNoopLogger(), serviceMock), "uid-1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
