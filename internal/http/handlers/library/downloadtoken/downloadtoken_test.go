package downloadtoken

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/digital-athletes/internal/http/middlewarectx"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/services/entitlement"
)

// MockService реализует интерфейс downloadtoken.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetDownloadToken(ctx context.Context, userID string, athleteProductID int) (*models.DownloadTokenResponse, error) {
	args := m.Called(ctx, userID, athleteProductID)
	if res := args.Get(0); res != nil {
		return res.(*models.DownloadTokenResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDownloadTokenHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	expiration := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userID         string
		urlID          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешная выдача токена",
			userID: "user-1",
			urlID:  "7",
			setupMock: func(m *MockService) {
				m.On("GetDownloadToken", mock.Anything, "user-1", 7).Return(&models.DownloadTokenResponse{
					Token:     "aabbccddeeff00112233445566778899",
					ExpiresAt: &expiration,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"aabbccddeeff00112233445566778899"`,
		},
		{
			name:   "бессрочный токен без expires_at",
			userID: "user-1",
			urlID:  "7",
			setupMock: func(m *MockService) {
				m.On("GetDownloadToken", mock.Anything, "user-1", 7).Return(&models.DownloadTokenResponse{
					Token: "aabbccddeeff00112233445566778899",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token"`,
		},
		{
			name:           "нет пользователя в контексте",
			userID:         "",
			urlID:          "7",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "некорректный id в URL",
			userID:         "user-1",
			urlID:          "zero",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"id is not valid"`,
		},
		{
			name:   "атлет не куплен",
			userID: "user-1",
			urlID:  "7",
			setupMock: func(m *MockService) {
				m.On("GetDownloadToken", mock.Anything, "user-1", 7).Return(nil, entitlement.ErrNotOwned)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"you do not own this digital athlete"`,
		},
		{
			name:   "ошибка сервиса",
			userID: "user-1",
			urlID:  "7",
			setupMock: func(m *MockService) {
				m.On("GetDownloadToken", mock.Anything, "user-1", 7).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not get download token"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/digital-athletes/"+tt.urlID+"/download-token", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("athleteId", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserID, tt.userID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
