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

type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, logger: logger}
}

// CreateOrder places an order on behalf of the caller. Users may only order
// for themselves; the product must exist.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if input.Caller == nil {
		return nil, domain.ErrForbidden
	}

	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id is required", domain.ErrValidation)
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = input.Caller.ID
	}
	if userID != input.Caller.ID {
		s.logger.Warn().
			Str("caller_id", input.Caller.ID).
			Str("user_id", userID).
			Msg("order for another user rejected")
		return nil, domain.ErrForbidden
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	order := &domain.Order{
		ID:        id.String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Str("user_id", userID).Msg("order created")
	return order, nil
}
