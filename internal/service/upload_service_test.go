package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ajmorris/photo-booth-events/internal/models"
)

type uploadFixture struct {
	photos   *fakePhotoStore
	events   *fakeEventStore
	settings *fakeSettingsStore
	payloads *fakePayloadStore
	nonces   *fakeNonceVerifier
	svc      *UploadService
}

func newUploadFixture() *uploadFixture {
	f := &uploadFixture{
		photos: newFakePhotoStore(),
		events: &fakeEventStore{events: map[string]models.Event{
			"evt-manual": {ID: "evt-manual", Title: "Company Party", Published: true},
			"evt-auto":   {ID: "evt-auto", Title: "Launch Day", Published: true, AutoApprove: true},
			"evt-draft":  {ID: "evt-draft", Title: "Unpublished", Published: false},
		}},
		settings: &fakeSettingsStore{settings: defaultSettings()},
		payloads: newFakePayloadStore(),
		nonces:   &fakeNonceVerifier{},
	}
	f.svc = NewUploadService(f.photos, f.events, f.settings, f.payloads, f.nonces, zerolog.Nop())
	return f
}

func validInput(eventID string) SubmitInput {
	file := jpegBytes(2 << 20)
	return SubmitInput{
		Nonce:        "nonce",
		NonceContext: "upload:" + eventID,
		EventID:      eventID,
		File:         file,
		DeclaredMIME: "image/jpeg",
		DeclaredSize: int64(len(file)),
	}
}

func TestSubmitPendingWhenAutoApproveOff(t *testing.T) {
	f := newUploadFixture()

	result, err := f.svc.Submit(context.Background(), validInput("evt-manual"))
	require.NoError(t, err)
	require.NotEmpty(t, result.PhotoID)
	require.Equal(t, models.PhotoStatusPending, result.Status)
	require.Empty(t, result.ImageURL, "pending photos must not expose an image URL")

	photo, err := f.photos.GetByID(context.Background(), result.PhotoID)
	require.NoError(t, err)
	require.Equal(t, "evt-manual", photo.EventID)
	require.Equal(t, models.PhotoSource, photo.Source)
	require.Equal(t, models.PhotoStatusPending, photo.Status)
	require.Contains(t, f.payloads.objects, photo.Bucket+"/"+photo.ObjectKey)
}

func TestSubmitApprovedWhenAutoApproveOn(t *testing.T) {
	f := newUploadFixture()

	result, err := f.svc.Submit(context.Background(), validInput("evt-auto"))
	require.NoError(t, err)
	require.Equal(t, models.PhotoStatusApproved, result.Status)
	require.NotEmpty(t, result.ImageURL)
}

func TestSubmitRejectsBadNonceBeforeAnyLookup(t *testing.T) {
	f := newUploadFixture()
	f.nonces.err = errBoom

	_, err := f.svc.Submit(context.Background(), validInput("evt-manual"))
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, RejectAuthorization, rejection.Code)
	require.Empty(t, f.photos.photos)
	require.Empty(t, f.payloads.objects)
}

func TestSubmitRejectsMissingOrUnknownEvent(t *testing.T) {
	f := newUploadFixture()

	input := validInput("evt-manual")
	input.EventID = ""
	_, err := f.svc.Submit(context.Background(), input)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, RejectValidation, rejection.Code)
	require.Equal(t, "Event ID is required.", rejection.Message)

	input = validInput("evt-missing")
	_, err = f.svc.Submit(context.Background(), input)
	rejection, ok = AsRejection(err)
	require.True(t, ok)
	require.Equal(t, "Invalid event.", rejection.Message)

	input = validInput("evt-draft")
	_, err = f.svc.Submit(context.Background(), input)
	rejection, ok = AsRejection(err)
	require.True(t, ok)
	require.Equal(t, "Invalid event.", rejection.Message)
}

func TestSubmitRejectsEmptyFile(t *testing.T) {
	f := newUploadFixture()

	input := validInput("evt-manual")
	input.File = nil
	_, err := f.svc.Submit(context.Background(), input)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, "No file uploaded.", rejection.Message)
}

func TestSubmitSizeLimitBoundary(t *testing.T) {
	f := newUploadFixture()

	// Exactly at the limit passes.
	input := validInput("evt-manual")
	input.DeclaredSize = models.DefaultMaxImageSizeBytes
	_, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)

	// One byte over is rejected with a size-specific message.
	input = validInput("evt-manual")
	input.DeclaredSize = models.DefaultMaxImageSizeBytes + 1
	_, err = f.svc.Submit(context.Background(), input)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, RejectValidation, rejection.Code)
	require.Equal(t, "File size exceeds maximum allowed size of 5 MB.", rejection.Message)
}

func TestSubmitRejectsDisallowedType(t *testing.T) {
	f := newUploadFixture()

	input := validInput("evt-manual")
	input.DeclaredMIME = "image/gif"
	input.File = append([]byte("GIF89a"), make([]byte, 128)...)
	input.DeclaredSize = int64(len(input.File))

	_, err := f.svc.Submit(context.Background(), input)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, "File type not allowed.", rejection.Message)
}

func TestSubmitRejectsMIMEMismatch(t *testing.T) {
	f := newUploadFixture()

	// Declared jpeg, actual png magic.
	input := validInput("evt-manual")
	input.File = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 128)...)
	input.DeclaredSize = int64(len(input.File))

	_, err := f.svc.Submit(context.Background(), input)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, "File type not allowed.", rejection.Message)
}

func TestSubmitStorageFailureIsGeneric(t *testing.T) {
	f := newUploadFixture()
	f.payloads.putErr = errBoom

	_, err := f.svc.Submit(context.Background(), validInput("evt-manual"))
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, RejectStorage, rejection.Code)
	require.NotContains(t, rejection.Message, "boom", "internal cause must not leak")
	require.Empty(t, f.photos.photos)
}

func TestSubmitRemovesPayloadWhenRecordFails(t *testing.T) {
	f := newUploadFixture()
	f.photos.createErr = errBoom

	_, err := f.svc.Submit(context.Background(), validInput("evt-manual"))
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, RejectStorage, rejection.Code)
	require.Empty(t, f.payloads.objects, "orphaned payload should be removed")
}

func TestSubmitReadsSettingsPerRequest(t *testing.T) {
	f := newUploadFixture()

	_, err := f.svc.Submit(context.Background(), validInput("evt-manual"))
	require.NoError(t, err)

	// Tighten the limit between requests; the next submission must see it.
	f.settings.settings.MaxImageSizeBytes = 1 << 20

	input := validInput("evt-manual")
	input.DeclaredSize = 2 << 20
	_, err = f.svc.Submit(context.Background(), input)
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	require.Equal(t, "File size exceeds maximum allowed size of 1 MB.", rejection.Message)
}
