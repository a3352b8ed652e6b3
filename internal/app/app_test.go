package app

import (
	"context"
	"errors"
	"testing"
)

func TestRuntime_CloseReverseOrderAndJoinsErrors(t *testing.T) {
	var order []string
	errRedis := errors.New("redis close")
	rt := &Runtime{closers: []func(context.Context) error{
		func(context.Context) error { order = append(order, "store"); return nil },
		func(context.Context) error { order = append(order, "redis"); return errRedis },
	}}

	err := rt.Close(context.Background())
	if !errors.Is(err, errRedis) {
		t.Fatalf("expected redis error, got %v", err)
	}
	if len(order) != 2 || order[0] != "redis" || order[1] != "store" {
		t.Fatalf("expected reverse close order, got %v", order)
	}
}

func TestRuntime_CloseEmpty(t *testing.T) {
	if err := (&Runtime{}).Close(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
