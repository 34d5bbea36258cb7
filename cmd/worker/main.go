package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajmorris/photo-booth-events/internal/cache"
	"github.com/ajmorris/photo-booth-events/internal/config"
	"github.com/ajmorris/photo-booth-events/internal/database"
	"github.com/ajmorris/photo-booth-events/internal/log"
	"github.com/ajmorris/photo-booth-events/internal/queue"
	"github.com/ajmorris/photo-booth-events/internal/repository"
	"github.com/ajmorris/photo-booth-events/internal/storage"
	"github.com/ajmorris/photo-booth-events/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	photoRepo := repository.NewPhotoRepository(dbPool)
	processor := tasks.NewProcessor(objectStore, photoRepo, logger)
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Worker.Stream,
		cfg.Worker.Group,
		cfg.Worker.Consumer,
		cfg.Worker.ClaimInterval,
		logger,
		processor,
	)

	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure consumer group failed")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
