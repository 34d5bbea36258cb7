package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/config"
	"github.com/ajmorris/photo-booth-events/internal/middleware"
	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/service"
)

// NonceManager issues and verifies single-use proof-of-origin tokens.
type NonceManager interface {
	Issue(ctx context.Context, nonceContext string) (string, error)
	Verify(ctx context.Context, nonceContext, nonce string) error
}

// EventDirectory is the read surface over CMS-owned events.
type EventDirectory interface {
	ListPublished(ctx context.Context) ([]models.Event, error)
}

// HandlerSet is constructed once at startup and handed its collaborators
// explicitly; nothing is reached through package-level state.
type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	upload     *service.UploadService
	moderation *service.ModerationService
	events     EventDirectory
	nonces     NonceManager
	db         *pgxpool.Pool
	cache      *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	upload *service.UploadService,
	moderation *service.ModerationService,
	events EventDirectory,
	nonces NonceManager,
	db *pgxpool.Pool,
	cache *redis.Client,
) HandlerSet {
	return HandlerSet{
		log:        log,
		cfg:        cfg,
		upload:     upload,
		moderation: moderation,
		events:     events,
		nonces:     nonces,
		db:         db,
		cache:      cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		booth := v1.Group("/booth")
		booth.GET("/token", h.IssueUploadToken)
		booth.POST("/submit", h.SubmitPhoto)

		v1.GET("/gallery", h.Gallery)
		v1.GET("/events", h.ListEvents)

		moderation := v1.Group("/moderation")
		moderation.POST("/login", h.ModeratorLogin)

		protected := moderation.Group("")
		protected.Use(middleware.ModeratorAuth(h.cfg))
		protected.GET("/token", h.IssueModerationToken)
		protected.GET("/photos", h.ModerationQueue)
		protected.POST("/photos/:id/approve", h.ApprovePhoto)
		protected.POST("/photos/:id/unapprove", h.UnapprovePhoto)
		protected.DELETE("/photos/:id", h.DeletePhoto)
		protected.POST("/photos/bulk", h.BulkModerate)
	}
}
