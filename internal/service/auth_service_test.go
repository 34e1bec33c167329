package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workforce/internal/auth"
	apperrors "workforce/internal/errors"
	"workforce/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string, excludeID uint) (bool, error) {
	args := m.Called(ctx, email, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Username: "jane", Email: "Jane@Example.com", Password: "password123", FirstName: "Jane"},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "jane@example.com", "jane", uint(0)).Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "user already exists",
			input: RegisterInput{Username: "existing", Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "existing@example.com", "existing", uint(0)).Return(true, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "lost race on unique index",
			input: RegisterInput{Username: "racer", Email: "racer@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("ExistsByEmailOrUsername", mock.Anything, "racer@example.com", "racer", uint(0)).Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrUserAlreadyExists)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "jane@example.com", user.Email)
				assert.Equal(t, "Jane", user.FirstName)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 5, Email: "test@example.com", PasswordHash: string(hashedPassword), Role: model.RoleManager}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(5), auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, apperrors.ErrNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "nope",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			tokens, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, tokens)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)

				claims, err := jwtService.ValidateToken(tokens.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, model.RoleManager, claims.Role)
				_, err = jwtService.ValidateRefreshToken(tokens.RefreshToken)
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: 5, Email: "test@example.com", Role: model.RoleAdmin}
	tokenID, refresh, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	t.Run("valid stored token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(5), nil)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(user, nil)

		access, err := NewAuthService(mockRepo, jwtService, mockTokenStore).RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, auth.TokenTypeAccess, claims.Type)
	})

	t.Run("revoked token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), auth.ErrTokenNotFound)

		_, err := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore).RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		access, err := jwtService.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore)).RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: 5, Email: "test@example.com", Role: model.RoleManager}
	tokenID, refresh, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	actor := &auth.Actor{UserID: 5, Role: model.RoleManager, TokenID: "access-jti", ExpiresAt: now.Add(10 * time.Minute)}

	t.Run("revokes refresh and blacklists access", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
		mockTokenStore.On("BlacklistAccessToken", mock.Anything, "access-jti", 10*time.Minute).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore).(*authService)
		svc.now = func() time.Time { return now }

		require.NoError(t, svc.Logout(context.Background(), actor, refresh))
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("refresh token of another user", func(t *testing.T) {
		other := &auth.Actor{UserID: 6, Role: model.RoleManager}
		err := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore)).Logout(context.Background(), other, refresh)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}
