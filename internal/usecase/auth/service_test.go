package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/hash"
	"github.com/gocampus/carpool/internal/pkg/jwt"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newTestTokenService() *jwt.TokenService {
	return jwt.NewTokenService("test-secret-key", 15*time.Minute)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		request   *RegisterRequest
		setupMock func(repo *mockUserRepo)
		wantErr   error
	}{
		{
			name: "успешная регистрация",
			request: &RegisterRequest{
				Name:     "Mario",
				Surname:  "Rossi",
				Email:    "mario.rossi@campus.edu",
				Password: "strongpassword",
			},
			setupMock: func(repo *mockUserRepo) {
				repo.On("GetByEmail", mock.Anything, "mario.rossi@campus.edu").Return(nil, domain.ErrUserNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "email уже занят",
			request: &RegisterRequest{
				Name:     "Mario",
				Surname:  "Rossi",
				Email:    "mario.rossi@campus.edu",
				Password: "strongpassword",
			},
			setupMock: func(repo *mockUserRepo) {
				repo.On("GetByEmail", mock.Anything, "mario.rossi@campus.edu").Return(&domain.User{
					ID:    uuid.New(),
					Email: "mario.rossi@campus.edu",
				}, nil)
			},
			wantErr: domain.ErrUserAlreadyExists,
		},
		{
			name: "некорректный email",
			request: &RegisterRequest{
				Name:     "Mario",
				Surname:  "Rossi",
				Email:    "not-an-email",
				Password: "strongpassword",
			},
			setupMock: func(repo *mockUserRepo) {
				repo.On("GetByEmail", mock.Anything, "not-an-email").Return(nil, domain.ErrUserNotFound)
			},
			wantErr: domain.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			tt.setupMock(repo)

			svc := NewService(repo, newTestTokenService(), logger.NewNoop())
			user, err := svc.Register(context.Background(), tt.request)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, domain.RoleNormal, user.Role)
				// Хеш пароля не возвращается наружу
				assert.Empty(t, user.PasswordHash)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	passwordHash, err := hash.HashPassword("correct-password")
	require.NoError(t, err)

	userID := uuid.New()
	storedUser := func() *domain.User {
		return &domain.User{
			ID:           userID,
			Email:        "mario.rossi@campus.edu",
			PasswordHash: passwordHash,
			Role:         domain.RoleNormal,
		}
	}

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "mario.rossi@campus.edu").Return(storedUser(), nil)

		svc := NewService(repo, newTestTokenService(), logger.NewNoop())
		resp, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "mario.rossi@campus.edu",
			Password: "correct-password",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, userID, resp.User.ID)
		assert.Empty(t, resp.User.PasswordHash)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "mario.rossi@campus.edu").Return(storedUser(), nil)

		svc := NewService(repo, newTestTokenService(), logger.NewNoop())
		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "mario.rossi@campus.edu",
			Password: "wrong-password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("пользователь не существует - та же ошибка, что и неверный пароль", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", mock.Anything, "ghost@campus.edu").Return(nil, domain.ErrUserNotFound)

		svc := NewService(repo, newTestTokenService(), logger.NewNoop())
		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "ghost@campus.edu",
			Password: "whatever",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestService_GetUserByID(t *testing.T) {
	userID := uuid.New()

	t.Run("хеш пароля очищается", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByID", mock.Anything, userID).Return(&domain.User{
			ID:           userID,
			Email:        "mario.rossi@campus.edu",
			PasswordHash: "$2a$12$something",
		}, nil)

		svc := NewService(repo, newTestTokenService(), logger.NewNoop())
		user, err := svc.GetUserByID(context.Background(), userID)

		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("пользователь не существует", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByID", mock.Anything, userID).Return(nil, domain.ErrUserNotFound)

		svc := NewService(repo, newTestTokenService(), logger.NewNoop())
		_, err := svc.GetUserByID(context.Background(), userID)

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
