package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajmorris/photo-booth-events/internal/models"
)

const (
	settingMaxImageSizeMB   = "max_image_size_mb"
	settingAllowedMIMETypes = "allowed_mime_types"
)

// SettingsRepository reads booth settings from the key/value table. Values
// are fetched fresh per submission so admin changes apply without restarts.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Load(ctx context.Context) (models.BoothSettings, error) {
	const query = `SELECT key, value FROM booth_settings WHERE key = ANY($1)`

	settings := models.BoothSettings{
		MaxImageSizeBytes: models.DefaultMaxImageSizeBytes,
		AllowedMIMETypes:  models.DefaultAllowedMIMETypes(),
	}

	rows, err := r.pool.Query(ctx, query, []string{settingMaxImageSizeMB, settingAllowedMIMETypes})
	if err != nil {
		return settings, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, err
		}

		switch key {
		case settingMaxImageSizeMB:
			if mb, err := strconv.ParseInt(value, 10, 64); err == nil && mb > 0 {
				settings.MaxImageSizeBytes = mb << 20
			}
		case settingAllowedMIMETypes:
			var types []string
			for _, t := range strings.Split(value, ",") {
				if t = strings.TrimSpace(t); t != "" {
					types = append(types, t)
				}
			}
			if len(types) > 0 {
				settings.AllowedMIMETypes = types
			}
		}
	}
	return settings, rows.Err()
}
