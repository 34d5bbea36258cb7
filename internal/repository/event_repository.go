package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajmorris/photo-booth-events/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepository is read-only; events are owned by the surrounding CMS.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (models.Event, error) {
	const query = `
		SELECT id, title, auto_approve, frame_url, published, created_at
		FROM events
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	var (
		event          models.Event
		rawAutoApprove string
	)
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&rawAutoApprove,
		&event.FrameURL,
		&event.Published,
		&event.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}

	// Normalize the loosely-typed flag here so nothing downstream ever sees
	// anything but a real boolean.
	event.AutoApprove = models.ParseAutoApprove(rawAutoApprove)
	return event, nil
}

func (r *EventRepository) ListPublished(ctx context.Context) ([]models.Event, error) {
	const query = `
		SELECT id, title, auto_approve, frame_url, published, created_at
		FROM events
		WHERE published
		ORDER BY title ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			event          models.Event
			rawAutoApprove string
		)
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&rawAutoApprove,
			&event.FrameURL,
			&event.Published,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		event.AutoApprove = models.ParseAutoApprove(rawAutoApprove)
		events = append(events, event)
	}
	return events, rows.Err()
}
