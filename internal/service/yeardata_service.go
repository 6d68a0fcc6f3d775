package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/authz"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// yearDataService is the concrete implementation of YearDataService
type yearDataService struct {
	yearData repository.YearDataRepository
	products repository.ProductRepository
	engine   *authz.Engine
	log      zerolog.Logger
}

// newYearDataService creates a new YearDataService
func newYearDataService(yearData repository.YearDataRepository, products repository.ProductRepository, engine *authz.Engine, log zerolog.Logger) *yearDataService {
	return &yearDataService{
		yearData: yearData,
		products: products,
		engine:   engine,
		log:      log.With().Str("service", "year_data").Logger(),
	}
}

// checkProductAccess resolves the product and defers to the grant check on
// its parent line.
func (s *yearDataService) checkProductAccess(ctx context.Context, userID int64, role string, productID int64) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.New(apperr.NotFound, "product not found")
	}

	ok, err := s.engine.CanEditProduct(ctx, userID, role, product)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "access denied to this line")
	}
	return nil
}

// Upsert writes the record for (product, year), idempotently
func (s *yearDataService) Upsert(ctx context.Context, userID int64, role string, yd *models.YearData) (*models.YearData, error) {
	if yd.Year == 0 {
		return nil, apperr.New(apperr.Validation, "year is required")
	}
	if err := s.checkProductAccess(ctx, userID, role, yd.ProductID); err != nil {
		return nil, err
	}

	saved, err := s.yearData.Upsert(ctx, yd)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("product_id", yd.ProductID).Int("year", yd.Year).Msg("Year data saved")
	return saved, nil
}

// Delete removes the record for (product, year)
func (s *yearDataService) Delete(ctx context.Context, userID int64, role string, productID int64, year int) error {
	if err := s.checkProductAccess(ctx, userID, role, productID); err != nil {
		return err
	}
	return s.yearData.Delete(ctx, productID, year)
}
