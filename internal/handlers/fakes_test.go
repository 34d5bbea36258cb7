package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/repository"
)

type memPhotoStore struct {
	photos map[string]models.Photo
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{photos: make(map[string]models.Photo)}
}

func (m *memPhotoStore) Create(ctx context.Context, photo models.Photo) error {
	m.photos[photo.ID] = photo
	return nil
}

func (m *memPhotoStore) GetByID(ctx context.Context, id string) (models.Photo, error) {
	photo, ok := m.photos[id]
	if !ok {
		return models.Photo{}, repository.ErrPhotoNotFound
	}
	return photo, nil
}

func (m *memPhotoStore) UpdateStatus(ctx context.Context, id string, status models.PhotoStatus) error {
	photo, ok := m.photos[id]
	if !ok {
		return repository.ErrPhotoNotFound
	}
	photo.Status = status
	m.photos[id] = photo
	return nil
}

func (m *memPhotoStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.photos[id]; !ok {
		return repository.ErrPhotoNotFound
	}
	delete(m.photos, id)
	return nil
}

func (m *memPhotoStore) List(ctx context.Context, filter repository.ListFilter) ([]models.Photo, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}

	var matched []models.Photo
	for _, photo := range m.photos {
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

type memEventStore struct {
	events map[string]models.Event
}

func (m *memEventStore) GetByID(ctx context.Context, id string) (models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return models.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (m *memEventStore) ListPublished(ctx context.Context) ([]models.Event, error) {
	var out []models.Event
	for _, event := range m.events {
		if event.Published {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

type memSettingsStore struct{}

func (memSettingsStore) Load(ctx context.Context) (models.BoothSettings, error) {
	return models.BoothSettings{
		MaxImageSizeBytes: models.DefaultMaxImageSizeBytes,
		AllowedMIMETypes:  models.DefaultAllowedMIMETypes(),
	}, nil
}

type memPayloadStore struct {
	objects map[string][]byte
}

func newMemPayloadStore() *memPayloadStore {
	return &memPayloadStore{objects: make(map[string][]byte)}
}

func (m *memPayloadStore) Bucket() string { return "booth-photos" }

func (m *memPayloadStore) ObjectKey(photoID, ext string) string { return photoID + "." + ext }

func (m *memPayloadStore) Put(ctx context.Context, objectKey string, data []byte, contentType string) error {
	m.objects[m.Bucket()+"/"+objectKey] = data
	return nil
}

func (m *memPayloadStore) Remove(ctx context.Context, bucket, objectKey string) error {
	delete(m.objects, bucket+"/"+objectKey)
	return nil
}

func (m *memPayloadStore) PublicURL(bucket, objectKey string) string {
	return "https://cdn.example.test/" + bucket + "/" + objectKey
}

type memCleanupQueue struct {
	enqueued []string
}

func (m *memCleanupQueue) EnqueueObjectCleanup(ctx context.Context, bucket, objectKey string) error {
	m.enqueued = append(m.enqueued, bucket+"/"+objectKey)
	return nil
}

var errNonceRejected = errors.New("nonce rejected")

// memNonceManager hands out sequential tokens and burns each one on first
// successful verification, matching the single-use production behavior.
type memNonceManager struct {
	seq    int
	issued map[string]bool
}

func newMemNonceManager() *memNonceManager {
	return &memNonceManager{issued: make(map[string]bool)}
}

func (m *memNonceManager) Issue(ctx context.Context, nonceContext string) (string, error) {
	m.seq++
	nonce := fmt.Sprintf("nonce-%d", m.seq)
	m.issued[nonceContext+"|"+nonce] = true
	return nonce, nil
}

func (m *memNonceManager) Verify(ctx context.Context, nonceContext, nonce string) error {
	key := nonceContext + "|" + nonce
	if !m.issued[key] {
		return errNonceRejected
	}
	delete(m.issued, key)
	return nil
}
