package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajmorris/photo-booth-events/internal/models"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepository struct {
	pool *pgxpool.Pool
}

func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

func (r *PhotoRepository) Create(ctx context.Context, photo models.Photo) error {
	const query = `
		INSERT INTO photos (
			id, event_id, source, status, mime_type, size_bytes, bucket, object_key, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.pool.Exec(ctx, query,
		photo.ID,
		photo.EventID,
		photo.Source,
		photo.Status,
		photo.MIMEType,
		photo.SizeBytes,
		photo.Bucket,
		photo.ObjectKey,
		photo.CreatedAt,
	)
	return err
}

func (r *PhotoRepository) GetByID(ctx context.Context, id string) (models.Photo, error) {
	const query = `
		SELECT id, event_id, source, status, mime_type, size_bytes, bucket, object_key, created_at
		FROM photos
		WHERE id = $1 AND source = $2
	`

	row := r.pool.QueryRow(ctx, query, id, models.PhotoSource)
	var photo models.Photo
	if err := row.Scan(
		&photo.ID,
		&photo.EventID,
		&photo.Source,
		&photo.Status,
		&photo.MIMEType,
		&photo.SizeBytes,
		&photo.Bucket,
		&photo.ObjectKey,
		&photo.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photo{}, ErrPhotoNotFound
		}
		return models.Photo{}, err
	}
	return photo, nil
}

// UpdateStatus is a plain last-write-wins write; concurrent moderators race
// at row granularity and that is accepted.
func (r *PhotoRepository) UpdateStatus(ctx context.Context, id string, status models.PhotoStatus) error {
	const query = `
		UPDATE photos SET status = $2
		WHERE id = $1 AND source = $3
	`

	tag, err := r.pool.Exec(ctx, query, id, status, models.PhotoSource)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM photos WHERE id = $1 AND source = $2`

	tag, err := r.pool.Exec(ctx, query, id, models.PhotoSource)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

type ListFilter struct {
	EventID  string // empty = all events
	Status   *models.PhotoStatus
	Page     int
	PerPage  int
	OrderAsc bool
}

// List returns one page of booth photos plus the total page count. The
// source predicate is applied unconditionally; it is what separates booth
// uploads from any other image rows in the store.
func (r *PhotoRepository) List(ctx context.Context, filter ListFilter) ([]models.Photo, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 20
	}

	where := "WHERE source = $1"
	args := []any{models.PhotoSource}

	if filter.EventID != "" {
		args = append(args, filter.EventID)
		where += fmt.Sprintf(" AND event_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM photos " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if filter.OrderAsc {
		direction = "ASC"
	}

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := fmt.Sprintf(`
		SELECT id, event_id, source, status, mime_type, size_bytes, bucket, object_key, created_at
		FROM photos %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, where, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var photo models.Photo
		if err := rows.Scan(
			&photo.ID,
			&photo.EventID,
			&photo.Source,
			&photo.Status,
			&photo.MIMEType,
			&photo.SizeBytes,
			&photo.Bucket,
			&photo.ObjectKey,
			&photo.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	totalPages := (total + filter.PerPage - 1) / filter.PerPage
	return photos, totalPages, nil
}
