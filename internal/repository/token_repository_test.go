package repository

import (
	"context"
	"testing"
	"time"

	"maison_atelier/internal/storage"
	redisapp "maison_atelier/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedRepo(t *testing.T) (*RedisTokenRepo, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	repo := NewRedisTokenRepo(&redisapp.Client{Client: db})

	return repo, mock
}

func TestRedisTokenRepo_SaveAdminToken(t *testing.T) {
	repo, mock := newMockedRepo(t)

	mock.ExpectSet("admin:token", "jwt-token", 2*time.Hour).SetVal("OK")

	err := repo.SaveAdminToken(context.Background(), "jwt-token", 2*time.Hour)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisTokenRepo_AdminToken(t *testing.T) {
	t.Run("stored token", func(t *testing.T) {
		repo, mock := newMockedRepo(t)

		mock.ExpectGet("admin:token").SetVal("jwt-token")

		token, err := repo.AdminToken(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "jwt-token", token)
	})

	t.Run("no token stored", func(t *testing.T) {
		repo, mock := newMockedRepo(t)

		mock.ExpectGet("admin:token").RedisNil()

		token, err := repo.AdminToken(context.Background())

		assert.ErrorIs(t, err, storage.ErrNoToken)
		assert.Empty(t, token)
	})
}

func TestRedisTokenRepo_ClearAdminToken(t *testing.T) {
	repo, mock := newMockedRepo(t)

	mock.ExpectDel("admin:token").SetVal(1)

	err := repo.ClearAdminToken(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
