package service

import (
	"context"
	"errors"
	"sort"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/repository"
)

type fakePhotoStore struct {
	photos    map[string]models.Photo
	createErr error
	updateErr error

	updateCalls int
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{photos: make(map[string]models.Photo)}
}

func (f *fakePhotoStore) Create(ctx context.Context, photo models.Photo) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.photos[photo.ID] = photo
	return nil
}

func (f *fakePhotoStore) GetByID(ctx context.Context, id string) (models.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return models.Photo{}, repository.ErrPhotoNotFound
	}
	return photo, nil
}

func (f *fakePhotoStore) UpdateStatus(ctx context.Context, id string, status models.PhotoStatus) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	photo, ok := f.photos[id]
	if !ok {
		return repository.ErrPhotoNotFound
	}
	photo.Status = status
	f.photos[id] = photo
	return nil
}

func (f *fakePhotoStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.photos[id]; !ok {
		return repository.ErrPhotoNotFound
	}
	delete(f.photos, id)
	return nil
}

func (f *fakePhotoStore) List(ctx context.Context, filter repository.ListFilter) ([]models.Photo, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}

	var matched []models.Photo
	for _, photo := range f.photos {
		if photo.Source != models.PhotoSource {
			continue
		}
		if filter.EventID != "" && photo.EventID != filter.EventID {
			continue
		}
		if filter.Status != nil && photo.Status != *filter.Status {
			continue
		}
		matched = append(matched, photo)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.OrderAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[j].CreatedAt.Before(matched[i].CreatedAt)
	})

	totalPages := (len(matched) + filter.PerPage - 1) / filter.PerPage
	start := (filter.Page - 1) * filter.PerPage
	if start > len(matched) {
		return nil, totalPages, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], totalPages, nil
}

type fakeEventStore struct {
	events map[string]models.Event
}

func (f *fakeEventStore) GetByID(ctx context.Context, id string) (models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return models.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

type fakeSettingsStore struct {
	settings models.BoothSettings
	err      error
}

func (f *fakeSettingsStore) Load(ctx context.Context) (models.BoothSettings, error) {
	if f.err != nil {
		return models.BoothSettings{}, f.err
	}
	return f.settings, nil
}

func defaultSettings() models.BoothSettings {
	return models.BoothSettings{
		MaxImageSizeBytes: models.DefaultMaxImageSizeBytes,
		AllowedMIMETypes:  models.DefaultAllowedMIMETypes(),
	}
}

type fakePayloadStore struct {
	objects   map[string][]byte
	putErr    error
	removeErr error
}

func newFakePayloadStore() *fakePayloadStore {
	return &fakePayloadStore{objects: make(map[string][]byte)}
}

func (f *fakePayloadStore) Bucket() string {
	return "booth-photos"
}

func (f *fakePayloadStore) ObjectKey(photoID, ext string) string {
	return photoID + "." + ext
}

func (f *fakePayloadStore) Put(ctx context.Context, objectKey string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[f.Bucket()+"/"+objectKey] = data
	return nil
}

func (f *fakePayloadStore) Remove(ctx context.Context, bucket, objectKey string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, bucket+"/"+objectKey)
	return nil
}

func (f *fakePayloadStore) PublicURL(bucket, objectKey string) string {
	return "https://cdn.example.test/" + bucket + "/" + objectKey
}

type fakeNonceVerifier struct {
	err   error
	calls []string
}

func (f *fakeNonceVerifier) Verify(ctx context.Context, nonceContext, nonce string) error {
	f.calls = append(f.calls, nonceContext)
	return f.err
}

type fakeCleanupQueue struct {
	enqueued []string
	err      error
}

func (f *fakeCleanupQueue) EnqueueObjectCleanup(ctx context.Context, bucket, objectKey string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, bucket+"/"+objectKey)
	return nil
}

var errBoom = errors.New("boom")

func jpegBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xff, 0xd8, 0xff, 0xe0})
	return data
}
