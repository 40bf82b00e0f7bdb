package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/laseropolis/marketplace-api/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.Bool(2), args.Error(3)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockService)
		expectedStatus int
		expectContext  bool
	}{
		{
			name:           "sin cabecera Authorization",
			authHeader:     "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "cabecera sin prefijo Bearer",
			authHeader:     "Basic abc123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "token inválido",
			authHeader: "Bearer bad-token",
			setupMock: func(m *MockService) {
				m.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, "", false, errors.New("token expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "token válido añade los datos al contexto",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockService) {
				m.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.User{UUID: "uid-1", Username: "maria", Role: "user"}, "user", true, nil)
			},
			expectedStatus: http.StatusOK,
			expectContext:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			var gotUsername, gotRole, gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUsername, _ = r.Context().Value(User).(string)
				gotRole, _ = r.Context().Value(Role).(string)
				gotUID, _ = r.Context().Value(UserUID).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/carrito", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			JWTMiddleware(mockSvc, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectContext {
				assert.Equal(t, "maria", gotUsername)
				assert.Equal(t, "user", gotRole)
				assert.Equal(t, "uid-1", gotUID)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{name: "sin rol en el contexto", role: "", expectedStatus: http.StatusUnauthorized},
		{name: "rol user rechazado", role: "user", expectedStatus: http.StatusForbidden},
		{name: "rol admin aceptado", role: "admin", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/archivos", nil)
			if tt.role != "" {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			w := httptest.NewRecorder()

			AdminOnlyMiddleware(logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
