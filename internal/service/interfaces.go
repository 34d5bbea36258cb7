package service

import (
	"context"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/repository"
)

type PhotoStore interface {
	Create(ctx context.Context, photo models.Photo) error
	GetByID(ctx context.Context, id string) (models.Photo, error)
	UpdateStatus(ctx context.Context, id string, status models.PhotoStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repository.ListFilter) ([]models.Photo, int, error)
}

type EventStore interface {
	GetByID(ctx context.Context, id string) (models.Event, error)
}

type SettingsStore interface {
	Load(ctx context.Context) (models.BoothSettings, error)
}

type PayloadStore interface {
	Bucket() string
	ObjectKey(photoID, ext string) string
	Put(ctx context.Context, objectKey string, data []byte, contentType string) error
	Remove(ctx context.Context, bucket, objectKey string) error
	PublicURL(bucket, objectKey string) string
}

// NonceVerifier checks a proof-of-origin token bound to a context string and
// consumes it so it cannot be replayed.
type NonceVerifier interface {
	Verify(ctx context.Context, nonceContext, nonce string) error
}

// CleanupQueue receives payload-removal work that could not be completed
// inline, so delete stays durable even when the object store hiccups.
type CleanupQueue interface {
	EnqueueObjectCleanup(ctx context.Context, bucket, objectKey string) error
}
