package ports

import (
	"context"

	"github.com/99minutos/store-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
}
