package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// lineService is the concrete implementation of LineService
type lineService struct {
	lines repository.LineRepository
	log   zerolog.Logger
}

// newLineService creates a new LineService
func newLineService(lines repository.LineRepository, log zerolog.Logger) *lineService {
	return &lineService{
		lines: lines,
		log:   log.With().Str("service", "line").Logger(),
	}
}

// ListForUser returns every line tagged with the caller's assignment state
func (s *lineService) ListForUser(ctx context.Context, userID int64) ([]*models.LineWithAssignment, error) {
	return s.lines.ListWithAssignment(ctx, userID)
}

// Create adds a line
func (s *lineService) Create(ctx context.Context, name, slug string, headerImageURL *string) (*models.Line, error) {
	if name == "" || slug == "" {
		return nil, apperr.New(apperr.Validation, "name and slug are required")
	}

	line := &models.Line{Name: name, Slug: slug, HeaderImageURL: headerImageURL}
	if err := s.lines.Create(ctx, line); err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", slug).Msg("Line created")
	return line, nil
}

// Update replaces a line's fields
func (s *lineService) Update(ctx context.Context, line *models.Line) error {
	if line.Name == "" || line.Slug == "" {
		return apperr.New(apperr.Validation, "name and slug are required")
	}
	return s.lines.Update(ctx, line)
}

// Delete removes a line together with its products and their year data.
// The cascade is the documented contract; callers warn the operator before
// invoking it.
func (s *lineService) Delete(ctx context.Context, id int64) error {
	if err := s.lines.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("line_id", id).Msg("Line deleted with cascade")
	return nil
}
