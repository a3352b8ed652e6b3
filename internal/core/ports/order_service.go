package ports

import (
	"context"

	"github.com/99minutos/store-api/internal/core/domain"
)

// CreateOrderInput is the DTO passed from the transport layer to OrderService.
type CreateOrderInput struct {
	// UserID is optional; empty means the caller.
	UserID    string
	ProductID string
	Caller    *domain.User
}

type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
