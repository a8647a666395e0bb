package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sport-shop/internal/model"
	"sport-shop/internal/repository"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := productFromRequest(req)
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := productFromRequest(req)
	product.ID = id

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !updated {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return product, nil
}

// Delete refuses to remove a product while order items still point at it.
func (s *productService) Delete(ctx context.Context, id int64) error {
	referenced, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check product references: %w", err)
	}
	if referenced {
		s.logger.Warn().Int64("product_id", id).Msg("product is referenced by orders")
		return model.ErrProductInUse
	}

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func validateProduct(req *model.ProductRequest) error {
	if req == nil {
		return model.NewValidationError(model.ErrCodeMissingField, "Product payload is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError(model.ErrCodeMissingField, "name is required")
	}
	if req.Price.IsNegative() {
		return model.NewValidationError(model.ErrCodeInvalidParameter, "price must not be negative")
	}
	if req.Stock < 0 {
		return model.NewValidationError(model.ErrCodeInvalidParameter, "stock must not be negative")
	}
	return nil
}

// productFromRequest rounds the price to the cents the price column stores,
// so the returned product matches what a later read sees.
func productFromRequest(req *model.ProductRequest) *model.Product {
	return &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price.Round(2),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}
}
