package get

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func doRequest(t *testing.T, handler *Handler, username string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/profiles/"+username, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("username", username)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("published profile is returned", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("GetByUsername", mock.Anything, "alice").
			Return(&models.Profile{Username: "alice", IsPublished: true, Name: "Alice"}, nil).Once()

		rec := doRequest(t, New(newNoopLogger(), serviceMock), "alice")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string         `json:"status"`
			Data   models.Profile `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		assert.Equal(t, "Alice", resp.Data.Name)
	})

	t.Run("unknown profile 404s", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("GetByUsername", mock.Anything, "ghost").
			Return(nil, repository.ErrNotFound).Once()

		rec := doRequest(t, New(newNoopLogger(), serviceMock), "ghost")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unpublished profile 404s", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("GetByUsername", mock.Anything, "bob").
			Return(&models.Profile{Username: "bob", IsPublished: false}, nil).Once()

		rec := doRequest(t, New(newNoopLogger(), serviceMock), "bob")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
