package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/repository"
)

type ModerationAction string

const (
	ActionApprove   ModerationAction = "approve"
	ActionUnapprove ModerationAction = "unapprove"
	ActionDelete    ModerationAction = "delete"
)

type ModerationService struct {
	photos   PhotoStore
	payloads PayloadStore
	cleanup  CleanupQueue
	log      zerolog.Logger
}

func NewModerationService(photos PhotoStore, payloads PayloadStore, cleanup CleanupQueue, log zerolog.Logger) *ModerationService {
	return &ModerationService{
		photos:   photos,
		payloads: payloads,
		cleanup:  cleanup,
		log:      log,
	}
}

// SetStatus moves a photo between pending and approved. Setting the status a
// photo already has is a no-op success.
func (s *ModerationService) SetStatus(ctx context.Context, photoID string, status models.PhotoStatus) error {
	if !status.Valid() {
		return reject(RejectValidation, "Unknown status.")
	}

	if err := s.photos.UpdateStatus(ctx, photoID, status); err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return reject(RejectNotFound, "Photo not found.")
		}
		s.log.Error().Err(err).Str("photo_id", photoID).Msg("update status failed")
		return reject(RejectStorage, "Could not update photo.")
	}

	s.log.Info().Str("photo_id", photoID).Str("status", string(status)).Msg("photo status changed")
	return nil
}

// Delete removes the record and its binary payload. The record goes first;
// if the payload removal then fails the object is handed to the cleanup
// queue rather than failing the operation, since the photo is already gone
// from every listing.
func (s *ModerationService) Delete(ctx context.Context, photoID string) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return reject(RejectNotFound, "Photo not found.")
		}
		s.log.Error().Err(err).Str("photo_id", photoID).Msg("load photo failed")
		return reject(RejectStorage, "Could not delete photo.")
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return reject(RejectNotFound, "Photo not found.")
		}
		s.log.Error().Err(err).Str("photo_id", photoID).Msg("delete photo record failed")
		return reject(RejectStorage, "Could not delete photo.")
	}

	if err := s.payloads.Remove(ctx, photo.Bucket, photo.ObjectKey); err != nil {
		s.log.Warn().Err(err).Str("object_key", photo.ObjectKey).Msg("payload removal deferred to cleanup queue")
		if s.cleanup != nil {
			if qErr := s.cleanup.EnqueueObjectCleanup(ctx, photo.Bucket, photo.ObjectKey); qErr != nil {
				s.log.Error().Err(qErr).Str("object_key", photo.ObjectKey).Msg("enqueue cleanup failed")
			}
		}
	}

	s.log.Info().Str("photo_id", photoID).Msg("photo deleted")
	return nil
}

// BulkApply runs the single-item operation for each id independently and
// returns how many succeeded. A bad id is skipped, never fatal to the batch.
func (s *ModerationService) BulkApply(ctx context.Context, action ModerationAction, photoIDs []string) (int, error) {
	var apply func(ctx context.Context, photoID string) error

	switch action {
	case ActionApprove:
		apply = func(ctx context.Context, photoID string) error {
			return s.SetStatus(ctx, photoID, models.PhotoStatusApproved)
		}
	case ActionUnapprove:
		apply = func(ctx context.Context, photoID string) error {
			return s.SetStatus(ctx, photoID, models.PhotoStatusPending)
		}
	case ActionDelete:
		apply = s.Delete
	default:
		return 0, reject(RejectValidation, "Unknown bulk action.")
	}

	updated := 0
	for _, photoID := range photoIDs {
		if photoID == "" {
			continue
		}
		if err := apply(ctx, photoID); err != nil {
			s.log.Warn().Err(err).Str("photo_id", photoID).Str("action", string(action)).Msg("bulk item skipped")
			continue
		}
		updated++
	}
	return updated, nil
}

// List serves both the public gallery and the moderation queue; callers pick
// the status filter. The booth source predicate is applied by the store on
// every query.
func (s *ModerationService) List(ctx context.Context, filter repository.ListFilter) ([]models.Photo, int, error) {
	photos, totalPages, err := s.photos.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("list photos failed")
		return nil, 0, reject(RejectStorage, "Could not load photos.")
	}
	return photos, totalPages, nil
}

// ImageURL exposes the viewable address of a stored photo for listings.
func (s *ModerationService) ImageURL(photo models.Photo) string {
	return s.payloads.PublicURL(photo.Bucket, photo.ObjectKey)
}
