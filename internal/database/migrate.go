package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	auto_approve TEXT NOT NULL DEFAULT '0',
	frame_url    TEXT,
	published    BOOLEAN NOT NULL DEFAULT TRUE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS photos (
	id         TEXT PRIMARY KEY,
	event_id   TEXT NOT NULL REFERENCES events(id),
	source     TEXT NOT NULL,
	status     TEXT NOT NULL,
	mime_type  TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	bucket     TEXT NOT NULL,
	object_key TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_photos_source_status ON photos (source, status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_photos_event ON photos (event_id, created_at DESC);

CREATE TABLE IF NOT EXISTS booth_settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
