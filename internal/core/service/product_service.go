package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate product id: %w", err)
	}

	product := &domain.Product{
		ID:          id.String(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")
	return product, nil
}

// ListProducts pages through the catalogue. Out-of-range paging values are
// clamped rather than rejected.
func (s *ProductService) ListProducts(ctx context.Context, input ports.ListProductsInput) ([]*domain.Product, error) {
	skip, limit := input.Skip, input.Limit
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit <= 0:
		limit = ports.DefaultPageLimit
	case limit > ports.MaxPageLimit:
		limit = ports.MaxPageLimit
	}

	products, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}
