package postgres

import (
	"context"
	"fmt"

	"github.com/99minutos/store-api/internal/core/domain"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order. A dangling user or product reference is reported
// with the matching not-found error.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, o.ID, o.UserID, o.ProductID, o.CreatedAt)
	if err == nil {
		return nil
	}

	if code, constraint := pgCode(err); code == codeForeignKeyViolation {
		if constraint == "orders_user_id_fkey" {
			return domain.ErrUserNotFound
		}
		return domain.ErrProductNotFound
	}
	return fmt.Errorf("insert order: %w", err)
}
