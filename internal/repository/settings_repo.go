package repository

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
)

// settingsRepo is the concrete implementation of SettingsRepository.
// The table holds exactly one row (id pinned to 1 by a CHECK constraint),
// so both operations are upserts against that key.
type settingsRepo struct {
	db *database.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *database.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// GetOrCreate returns the settings row, creating it with defaults on first
// access.
func (r *settingsRepo) GetOrCreate(ctx context.Context) (*models.GlobalSettings, error) {
	query := `
		INSERT INTO global_settings (id, header_image_url, active_years, updated_at)
		VALUES (1, $1, '{}', $2)
		ON CONFLICT (id) DO UPDATE SET id = global_settings.id
		RETURNING id, header_image_url, active_years, updated_at
	`
	defaultURL := models.DefaultHeaderImageURL
	return r.scan(ctx, query, &defaultURL, time.Now())
}

// Update replaces the header image and active years
func (r *settingsRepo) Update(ctx context.Context, headerImageURL *string, activeYears []int) (*models.GlobalSettings, error) {
	if activeYears == nil {
		activeYears = []int{}
	}
	query := `
		INSERT INTO global_settings (id, header_image_url, active_years, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			header_image_url = EXCLUDED.header_image_url,
			active_years = EXCLUDED.active_years,
			updated_at = EXCLUDED.updated_at
		RETURNING id, header_image_url, active_years, updated_at
	`
	return r.scan(ctx, query, headerImageURL, pq.Array(activeYears), time.Now())
}

func (r *settingsRepo) scan(ctx context.Context, query string, args ...any) (*models.GlobalSettings, error) {
	var settings models.GlobalSettings
	var years pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID, &settings.HeaderImageURL, &years, &settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	settings.ActiveYears = make([]int, len(years))
	for i, y := range years {
		settings.ActiveYears[i] = int(y)
	}
	return &settings, nil
}
