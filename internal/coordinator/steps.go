package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

// --- SaveLastOrderStep ---

type SaveLastOrderStep struct {
	store    ports.CartStore
	order    entity.OrderRecord
	previous *entity.OrderRecord
}

func NewSaveLastOrderStep(store ports.CartStore, order entity.OrderRecord) *SaveLastOrderStep {
	return &SaveLastOrderStep{store: store, order: order}
}

func (s *SaveLastOrderStep) Name() string { return "Save_Last_Order_Step" }

func (s *SaveLastOrderStep) Execute(ctx context.Context) error {
	prev, err := s.store.LoadLastOrder(ctx)
	switch {
	case errors.Is(err, ports.ErrKeyNotFound):
		s.previous = nil
	case err != nil:
		return fmt.Errorf("failed to read last order: %w", err)
	default:
		s.previous = prev
	}

	if err := s.store.SaveLastOrder(ctx, s.order); err != nil {
		return fmt.Errorf("failed to save last order: %w", err)
	}
	return nil
}

// Compensate puts back whatever order was last before this one.
func (s *SaveLastOrderStep) Compensate(ctx context.Context) error {
	if s.previous == nil {
		return s.store.DeleteLastOrder(ctx)
	}
	return s.store.SaveLastOrder(ctx, *s.previous)
}

// --- ClearCartStep ---

type ClearCartStep struct {
	engine   *cart.Engine
	snapshot []entity.LineItem
}

func NewClearCartStep(engine *cart.Engine) *ClearCartStep {
	return &ClearCartStep{engine: engine}
}

func (s *ClearCartStep) Name() string { return "Clear_Cart_Step" }

func (s *ClearCartStep) Execute(ctx context.Context) error {
	s.snapshot = s.engine.Items()
	if err := s.engine.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *ClearCartStep) Compensate(ctx context.Context) error {
	return s.engine.Restore(ctx, s.snapshot)
}
