package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajmorris/photo-booth-events/internal/ids"
	"github.com/ajmorris/photo-booth-events/internal/media/sniffer"
	"github.com/ajmorris/photo-booth-events/internal/models"
)

type SubmitInput struct {
	Nonce        string
	NonceContext string
	EventID      string
	File         []byte
	DeclaredMIME string
	DeclaredSize int64
}

type SubmitResult struct {
	PhotoID  string
	Status   models.PhotoStatus
	ImageURL string // set only when the photo is already approved
}

type UploadService struct {
	photos   PhotoStore
	events   EventStore
	settings SettingsStore
	payloads PayloadStore
	nonces   NonceVerifier
	log      zerolog.Logger
}

func NewUploadService(photos PhotoStore, events EventStore, settings SettingsStore, payloads PayloadStore, nonces NonceVerifier, log zerolog.Logger) *UploadService {
	return &UploadService{
		photos:   photos,
		events:   events,
		settings: settings,
		payloads: payloads,
		nonces:   nonces,
		log:      log,
	}
}

// Submit runs the full ingestion pipeline. Check order is deliberate: the
// cheap origin-token check comes before any I/O, then event resolution, then
// payload validation, and storage writes only after everything else passed.
func (s *UploadService) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if err := s.nonces.Verify(ctx, input.NonceContext, input.Nonce); err != nil {
		return SubmitResult{}, reject(RejectAuthorization, "Security check failed.")
	}

	if input.EventID == "" {
		return SubmitResult{}, reject(RejectValidation, "Event ID is required.")
	}

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return SubmitResult{}, reject(RejectValidation, "Invalid event.")
	}
	if !event.Published {
		return SubmitResult{}, reject(RejectValidation, "Invalid event.")
	}

	if len(input.File) == 0 {
		return SubmitResult{}, reject(RejectValidation, "No file uploaded.")
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load booth settings failed")
		return SubmitResult{}, reject(RejectStorage, "Upload failed. Please try again.")
	}

	// Exactly at the limit is accepted; one byte over is not.
	if input.DeclaredSize > settings.MaxImageSizeBytes {
		return SubmitResult{}, reject(RejectValidation, fmt.Sprintf(
			"File size exceeds maximum allowed size of %d MB.", settings.MaxImageSizeBytes>>20))
	}

	if !settings.AllowsMIME(input.DeclaredMIME) {
		return SubmitResult{}, reject(RejectValidation, "File type not allowed.")
	}

	detected, err := sniffer.DetectHead(head(input.File))
	if err != nil || detected.MIME != input.DeclaredMIME {
		return SubmitResult{}, reject(RejectValidation, "File type not allowed.")
	}

	photoID := ids.New()
	objectKey := s.payloads.ObjectKey(photoID, string(detected.Type))

	if err := s.payloads.Put(ctx, objectKey, input.File, detected.MIME); err != nil {
		s.log.Error().Err(err).Str("object_key", objectKey).Msg("store payload failed")
		return SubmitResult{}, reject(RejectStorage, "Upload failed. Please try again.")
	}

	status := models.PhotoStatusPending
	if event.AutoApprove {
		status = models.PhotoStatusApproved
	}

	photo := models.Photo{
		ID:        photoID,
		EventID:   event.ID,
		Source:    models.PhotoSource,
		Status:    status,
		MIMEType:  detected.MIME,
		SizeBytes: int64(len(input.File)),
		Bucket:    s.payloads.Bucket(),
		ObjectKey: objectKey,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		s.log.Error().Err(err).Str("photo_id", photoID).Msg("save photo record failed")
		if rmErr := s.payloads.Remove(ctx, photo.Bucket, objectKey); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("object_key", objectKey).Msg("orphaned payload left behind")
		}
		return SubmitResult{}, reject(RejectStorage, "Upload failed. Please try again.")
	}

	result := SubmitResult{
		PhotoID: photoID,
		Status:  status,
	}
	if status == models.PhotoStatusApproved {
		result.ImageURL = s.payloads.PublicURL(photo.Bucket, objectKey)
	}

	s.log.Info().
		Str("photo_id", photoID).
		Str("event_id", event.ID).
		Str("status", string(status)).
		Int64("size_bytes", photo.SizeBytes).
		Msg("photo submitted")

	return result, nil
}

func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
