package ports

import (
	"context"

	"github.com/99minutos/store-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns up to limit products ordered by creation time, skipping the first skip.
	List(ctx context.Context, skip, limit int) ([]*domain.Product, error)
}
