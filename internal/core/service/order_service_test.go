package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

func newOrderSvc() (*OrderService, *stubOrderRepo) {
	products := newStubProductRepo(&domain.Product{ID: "prod-1", Name: "Widget", Price: 100})
	orders := &stubOrderRepo{}
	return NewOrderService(orders, products, zerolog.Nop()), orders
}

var caller = &domain.User{ID: "user-1", Username: "alice", IsActive: true}

func TestOrderService_CreateOrder_DefaultsToCaller(t *testing.T) {
	svc, orders := newOrderSvc()

	o, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{ProductID: "prod-1", Caller: caller})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if o.ID == "" || o.UserID != "user-1" || o.ProductID != "prod-1" || o.CreatedAt.IsZero() {
		t.Fatalf("unexpected order: %+v", o)
	}
	if len(orders.created) != 1 {
		t.Fatalf("expected one stored order, got %d", len(orders.created))
	}
}

func TestOrderService_CreateOrder_ExplicitSelf(t *testing.T) {
	svc, _ := newOrderSvc()

	o, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{UserID: "user-1", ProductID: "prod-1", Caller: caller})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if o.UserID != "user-1" {
		t.Fatalf("unexpected user id %q", o.UserID)
	}
}

func TestOrderService_CreateOrder_ForAnotherUserForbidden(t *testing.T) {
	svc, orders := newOrderSvc()

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{UserID: "user-2", ProductID: "prod-1", Caller: caller})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Fatalf("no order should be stored")
	}

	if _, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{ProductID: "prod-1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden without caller, got %v", err)
	}
}

func TestOrderService_CreateOrder_ProductChecks(t *testing.T) {
	svc, orders := newOrderSvc()

	if _, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{ProductID: "missing", Caller: caller}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{ProductID: " ", Caller: caller}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Fatalf("no order should be stored")
	}
}

func TestOrderService_CreateOrder_StoreError(t *testing.T) {
	svc, orders := newOrderSvc()
	orders.createErr = errStore

	if _, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{ProductID: "prod-1", Caller: caller}); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}
