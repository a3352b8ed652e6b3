package ports

import (
	"context"

	"github.com/99minutos/store-api/internal/core/domain"
)

type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
}

type ListProductsInput struct {
	Skip  int
	Limit int // capped at MaxPageLimit by the service
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) ([]*domain.Product, error)
}
