package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/cache"
	"github.com/ajmorris/photo-booth-events/internal/config"
	"github.com/ajmorris/photo-booth-events/internal/database"
	"github.com/ajmorris/photo-booth-events/internal/handlers"
	"github.com/ajmorris/photo-booth-events/internal/jobs"
	"github.com/ajmorris/photo-booth-events/internal/log"
	"github.com/ajmorris/photo-booth-events/internal/queue"
	"github.com/ajmorris/photo-booth-events/internal/repository"
	"github.com/ajmorris/photo-booth-events/internal/security"
	"github.com/ajmorris/photo-booth-events/internal/server"
	"github.com/ajmorris/photo-booth-events/internal/service"
	"github.com/ajmorris/photo-booth-events/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	photoRepo := repository.NewPhotoRepository(dbPool)
	eventRepo := repository.NewEventRepository(dbPool)
	settingsRepo := repository.NewSettingsRepository(dbPool)

	nonces := security.NewNonceService(cfg.Security.NonceSecret, cfg.Security.NonceTTL, redisClient)
	producer := queue.NewProducer(redisClient, cfg.Worker.Stream)

	uploadService := service.NewUploadService(photoRepo, eventRepo, settingsRepo, objectStore, nonces, logger)
	moderationService := service.NewModerationService(photoRepo, objectStore, producer, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, uploadService, moderationService, eventRepo, nonces, dbPool, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(producer, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
