package app

import (
	"context"
	"log/slog"

	httpapp "maison_atelier/internal/app/http"
	"maison_atelier/internal/config"
	"maison_atelier/internal/gateway"
	"maison_atelier/internal/lib/logger/sl"
	"maison_atelier/internal/repository"
	admin "maison_atelier/internal/services/admin_service"
	"maison_atelier/internal/services/auth"
	collection "maison_atelier/internal/services/collection_service"
	sequence "maison_atelier/internal/services/sequence_service"
	upload "maison_atelier/internal/services/upload_service"
	redisapp "maison_atelier/internal/storage/redis"
	httprouters "maison_atelier/internal/transport/http"

	gocache "github.com/patrickmn/go-cache"
)

type App struct {
	HTTPServer *httpapp.Server

	redis *redisapp.Client
	log   *slog.Logger
}

func New(log *slog.Logger, cfg *config.Config) *App {
	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(context.Background()); err != nil {
		log.Warn("redis unreachable, operator login will not survive restarts", sl.Err(err))
	}

	tokenRepo := repository.NewRedisTokenRepo(redisClient)

	remote := gateway.New(log, cfg.RemoteAPI.BaseURL, cfg.RemoteAPI.Timeout, tokenRepo)

	store := collection.NewStore(log, remote)

	remote.SetUnauthorizedHook(func() {
		log.Warn("remote rejected the operator token, panel must log in again")
	})

	uploadService := upload.NewUploadService(log, remote, cfg.Upload.MaxSize, cfg.Upload.MaxDimension)
	adminService := admin.NewAdminService(log, remote, uploadService, store)
	sequenceService := sequence.NewSequenceService(log, remote, store)
	authService := auth.New(log, remote, tokenRepo, cfg.TokenTTL)

	// Warm the store before serving; a degraded first load is fine,
	// the panel can reload once the remote recovers.
	if err := store.ReloadAll(context.Background()); err != nil {
		log.Warn("initial content load incomplete", sl.Err(err))
	}

	publicCache := gocache.New(cfg.Cache.CollectionTTL, 2*cfg.Cache.CollectionTTL)

	routers := httprouters.NewRouter(log, authService, adminService, sequenceService, store, remote, publicCache)

	server := httpapp.New(log, cfg.Session.Secret, cfg.HTTP.Port, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		redis:      redisClient,
		log:        log,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("http server shutdown failed", sl.Err(err))
	}

	a.redis.Close()
}
