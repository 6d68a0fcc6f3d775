package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/authz"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// productService is the concrete implementation of ProductService
type productService struct {
	products repository.ProductRepository
	engine   *authz.Engine
	log      zerolog.Logger
}

// newProductService creates a new ProductService
func newProductService(products repository.ProductRepository, engine *authz.Engine, log zerolog.Logger) *productService {
	return &productService{
		products: products,
		engine:   engine,
		log:      log.With().Str("service", "product").Logger(),
	}
}

// List returns products, optionally scoped to one line. Viewing is open to
// any authenticated caller.
func (s *productService) List(ctx context.Context, lineID *int64) ([]*models.Product, error) {
	return s.products.List(ctx, lineID)
}

// Get returns one product with its year records
func (s *productService) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetWithYearData(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	return product, nil
}

// Create adds a product after checking the caller's grant on the target line
func (s *productService) Create(ctx context.Context, userID int64, role string, product *models.Product) error {
	if product.Name == "" {
		return apperr.New(apperr.Validation, "name is required")
	}
	if product.LineID == nil {
		return apperr.New(apperr.Validation, "line id is required")
	}

	ok, err := s.engine.CanAccessLine(ctx, userID, *product.LineID, role)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "access denied to this line")
	}

	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.log.Info().Str("name", product.Name).Int64("line_id", *product.LineID).Msg("Product created")
	return nil
}

// Update replaces a product's fields after checking the caller's grant on
// the parent line
func (s *productService) Update(ctx context.Context, userID int64, role string, product *models.Product) error {
	existing, err := s.products.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.New(apperr.NotFound, "product not found")
	}

	ok, err := s.engine.CanEditProduct(ctx, userID, role, existing)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "access denied to this line")
	}

	if product.LineID == nil {
		product.LineID = existing.LineID
	}
	return s.products.Update(ctx, product)
}

// Delete removes a product and its year data after checking the caller's
// grant on the parent line
func (s *productService) Delete(ctx context.Context, userID int64, role string, id int64) error {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.New(apperr.NotFound, "product not found")
	}

	ok, err := s.engine.CanEditProduct(ctx, userID, role, existing)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "access denied to this line")
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}
