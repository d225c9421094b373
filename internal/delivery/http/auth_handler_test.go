package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/usecase/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

func (m *mockAuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(svc *mockAuthService)
		expectedStatus int
	}{
		{
			name: "успешная регистрация",
			requestBody: map[string]interface{}{
				"name":     "Mario",
				"surname":  "Rossi",
				"email":    "mario.rossi@campus.edu",
				"password": "strongpassword",
			},
			setupMock: func(svc *mockAuthService) {
				svc.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(CreateTestUser(uuid.New(), "mario.rossi@campus.edu"), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "email уже занят",
			requestBody: map[string]interface{}{
				"name":     "Mario",
				"surname":  "Rossi",
				"email":    "mario.rossi@campus.edu",
				"password": "strongpassword",
			},
			setupMock: func(svc *mockAuthService) {
				svc.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(nil, domain.ErrUserAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "некорректный email",
			requestBody: map[string]interface{}{
				"name":     "Mario",
				"surname":  "Rossi",
				"email":    "not-an-email",
				"password": "strongpassword",
			},
			setupMock: func(svc *mockAuthService) {
				svc.On("Register", mock.Anything, mock.AnythingOfType("*auth.RegisterRequest")).
					Return(nil, domain.ErrInvalidEmail)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "невалидное тело запроса",
			requestBody:    "not-json",
			setupMock:      func(svc *mockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockAuthService)
			tt.setupMock(svc)

			handler := NewAuthHandler(svc, logger.NewNoop())

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()

	t.Run("успешный вход", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
			Return(&auth.LoginResponse{
				User:        CreateTestUser(userID, "mario.rossi@campus.edu"),
				AccessToken: "token-string",
				ExpiresAt:   time.Now().Add(15 * time.Minute),
			}, nil)

		handler := NewAuthHandler(svc, logger.NewNoop())

		body, err := json.Marshal(map[string]string{
			"email":    "mario.rossi@campus.edu",
			"password": "correct-password",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "token-string")
	})

	t.Run("неверные учетные данные", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, mock.AnythingOfType("*auth.LoginRequest")).
			Return(nil, domain.ErrInvalidCredentials)

		handler := NewAuthHandler(svc, logger.NewNoop())

		body, err := json.Marshal(map[string]string{
			"email":    "mario.rossi@campus.edu",
			"password": "wrong",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_GetMe(t *testing.T) {
	userID := uuid.New()

	t.Run("профиль текущего пользователя", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("GetUserByID", mock.Anything, userID).
			Return(CreateTestUser(userID, "mario.rossi@campus.edu"), nil)

		handler := NewAuthHandler(svc, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req = req.WithContext(CreateAuthContext(t, userID, "mario.rossi@campus.edu", domain.RoleNormal))

		rec := httptest.NewRecorder()
		handler.GetMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response struct {
			Success bool         `json:"success"`
			Data    *domain.User `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, userID, response.Data.ID)
	})

	t.Run("без аутентификации", func(t *testing.T) {
		handler := NewAuthHandler(new(mockAuthService), logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rec := httptest.NewRecorder()
		handler.GetMe(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("пользователь не существует", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("GetUserByID", mock.Anything, userID).Return(nil, domain.ErrUserNotFound)

		handler := NewAuthHandler(svc, logger.NewNoop())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req = req.WithContext(CreateAuthContext(t, userID, "mario.rossi@campus.edu", domain.RoleNormal))

		rec := httptest.NewRecorder()
		handler.GetMe(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
