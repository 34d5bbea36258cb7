package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/repository"
	"github.com/ajmorris/photo-booth-events/internal/storage"
)

type TaskPayload struct {
	Type   string `json:"type"`
	Bucket string `json:"bucket"`
	Object string `json:"object"`
}

// Processor executes cleanup tasks: removing payloads whose records are
// already gone, and the nightly pending-photo sweep.
type Processor struct {
	store  *storage.ObjectStore
	photos *repository.PhotoRepository
	logger zerolog.Logger
}

func NewProcessor(store *storage.ObjectStore, photos *repository.PhotoRepository, logger zerolog.Logger) *Processor {
	return &Processor{
		store:  store,
		photos: photos,
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "cleanup_object":
		return p.handleCleanupObject(ctx, payload)
	case "sweep":
		return p.handleSweep(ctx)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (p *Processor) handleCleanupObject(ctx context.Context, payload TaskPayload) error {
	if payload.Bucket == "" || payload.Object == "" {
		p.logger.Warn().Msg("cleanup task missing bucket or object")
		return nil
	}

	if err := p.store.Remove(ctx, payload.Bucket, payload.Object); err != nil {
		return fmt.Errorf("remove orphaned object: %w", err)
	}

	p.logger.Info().Str("object", payload.Object).Msg("orphaned payload removed")
	return nil
}

// handleSweep reports how many photos have been sitting in the moderation
// queue for over a week. Reporting only; retention enforcement stays a
// human decision.
func (p *Processor) handleSweep(ctx context.Context) error {
	pending := models.PhotoStatusPending
	stale := 0
	cutoff := time.Now().AddDate(0, 0, -7)

	for page := 1; ; page++ {
		photos, totalPages, err := p.photos.List(ctx, repository.ListFilter{
			Status:   &pending,
			Page:     page,
			PerPage:  100,
			OrderAsc: true,
		})
		if err != nil {
			return fmt.Errorf("list pending photos: %w", err)
		}

		for _, photo := range photos {
			if photo.CreatedAt.Before(cutoff) {
				stale++
			}
		}

		if page >= totalPages || len(photos) == 0 {
			break
		}
	}

	p.logger.Info().Int("stale_pending", stale).Msg("moderation queue sweep finished")
	return nil
}
