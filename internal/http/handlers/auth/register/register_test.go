package register

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/services/auth"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.DummyRegister) (*models.User, string, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyRegister{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:        "successful signup",
			requestBody: validReq,
			mockUser: &models.User{
				UID: "uid-1", Username: "alice", Email: "alice@example.com",
				SubscriptionStatus: models.StatusTrial,
			},
			mockToken:      "tok-1",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name: "validation error",
			requestBody: models.DummyRegister{
				Username: "alice", Email: "not-an-email", Password: "secret123",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:           "email already registered",
			requestBody:    validReq,
			mockErr:        auth.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "email already registered",
		},
		{
			name:           "exhausted promo code",
			requestBody:    validReq,
			mockErr:        repository.ErrPromoLimitReached,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "promo code is not valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockUser != nil || tt.mockErr != nil {
				serviceMock.On("Register", mock.Anything, mock.Anything).
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error"`
				Data   map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			}
			if tt.mockUser != nil {
				assert.Equal(t, tt.mockToken, resp.Data["token"])
			}
		})
	}
}
