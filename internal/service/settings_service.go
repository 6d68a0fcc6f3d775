package service

import (
	"context"

	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// settingsService is a thin pass-through over the singleton settings row.
type settingsService struct {
	settings repository.SettingsRepository
}

func newSettingsService(settings repository.SettingsRepository) *settingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) Get(ctx context.Context) (*models.GlobalSettings, error) {
	return s.settings.GetOrCreate(ctx)
}

func (s *settingsService) Update(ctx context.Context, headerImageURL *string, activeYears []int) (*models.GlobalSettings, error) {
	return s.settings.Update(ctx, headerImageURL, activeYears)
}
