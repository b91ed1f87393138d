package repository

import (
	redisapp "maison_atelier/internal/storage/redis"

	"maison_atelier/internal/storage"

	"github.com/redis/go-redis/v9"

	"context"
	"time"
)

type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) SaveAdminToken(ctx context.Context, token string, exp time.Duration) error {
	return r.Client.Set(ctx, adminTokenKey(), token, exp).Err()
}

func (r *RedisTokenRepo) AdminToken(ctx context.Context) (string, error) {
	val, err := r.Client.Get(ctx, adminTokenKey()).Result()
	if err == redis.Nil {
		return "", storage.ErrNoToken
	}
	return val, err
}

func (r *RedisTokenRepo) ClearAdminToken(ctx context.Context) error {
	return r.Client.Del(ctx, adminTokenKey()).Err()
}

func adminTokenKey() string {
	return "admin:token"
}
