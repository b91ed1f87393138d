package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"maison_atelier/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoginGateway struct {
	mock.Mock
}

func (m *MockLoginGateway) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

type MockTokenRepo struct {
	mock.Mock
}

func (m *MockTokenRepo) SaveAdminToken(ctx context.Context, token string, exp time.Duration) error {
	args := m.Called(ctx, token, exp)
	return args.Error(0)
}

func (m *MockTokenRepo) AdminToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTokenRepo) ClearAdminToken(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("remote-side-secret"))
	require.NoError(t, err)
	return signed
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	fallback := 12 * time.Hour

	t.Run("jwt token stored with derived ttl", func(t *testing.T) {
		gw := new(MockLoginGateway)
		repo := new(MockTokenRepo)

		token := signedToken(t, time.Now().Add(2*time.Hour))

		gw.On("Login", ctx, "studio@example.com", "secret").Return(token, nil).Once()
		repo.On("SaveAdminToken", ctx, token, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > time.Hour && ttl <= 2*time.Hour
		})).Return(nil).Once()

		service := New(slog.Default(), gw, repo, fallback)

		err := service.Login(ctx, "studio@example.com", "secret")

		assert.NoError(t, err)
		gw.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("opaque token stored with fallback ttl", func(t *testing.T) {
		gw := new(MockLoginGateway)
		repo := new(MockTokenRepo)

		gw.On("Login", ctx, "studio@example.com", "secret").Return("not-a-jwt", nil).Once()
		repo.On("SaveAdminToken", ctx, "not-a-jwt", fallback).Return(nil).Once()

		service := New(slog.Default(), gw, repo, fallback)

		err := service.Login(ctx, "studio@example.com", "secret")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		gw := new(MockLoginGateway)
		repo := new(MockTokenRepo)

		gw.On("Login", ctx, "studio@example.com", "wrong").
			Return("", storage.ErrUnauthorized).Once()

		service := New(slog.Default(), gw, repo, fallback)

		err := service.Login(ctx, "studio@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "SaveAdminToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transport failure is not invalid credentials", func(t *testing.T) {
		gw := new(MockLoginGateway)
		repo := new(MockTokenRepo)

		gw.On("Login", ctx, "studio@example.com", "secret").
			Return("", errors.New("connection refused")).Once()

		service := New(slog.Default(), gw, repo, fallback)

		err := service.Login(ctx, "studio@example.com", "secret")

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("persist failure surfaces", func(t *testing.T) {
		gw := new(MockLoginGateway)
		repo := new(MockTokenRepo)

		gw.On("Login", ctx, "studio@example.com", "secret").Return("tok", nil).Once()
		repo.On("SaveAdminToken", ctx, "tok", fallback).
			Return(errors.New("redis down")).Once()

		service := New(slog.Default(), gw, repo, fallback)

		err := service.Login(ctx, "studio@example.com", "secret")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis down")
	})
}

func TestAuth_Logout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTokenRepo)

	repo.On("ClearAdminToken", ctx).Return(nil).Once()

	service := New(slog.Default(), new(MockLoginGateway), repo, time.Hour)

	assert.NoError(t, service.Logout(ctx))
	repo.AssertExpectations(t)
}

func TestAuth_Authenticated(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTokenRepo)
	repo.On("AdminToken", ctx).Return("tok", nil).Once()

	service := New(slog.Default(), new(MockLoginGateway), repo, time.Hour)
	assert.True(t, service.Authenticated(ctx))

	repo.On("AdminToken", ctx).Return("", storage.ErrNoToken).Once()
	assert.False(t, service.Authenticated(ctx))
}
