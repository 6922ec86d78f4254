// Package cart holds the in-memory cart logic: merging line items, quantity changes,
// totals, and the customization draft attached to the next added item.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

var mutations, _ = otel.Meter("storefront/cart").Int64Counter(
	"cart.mutations",
	metric.WithDescription("Cart mutations by operation"),
)

// Engine owns one visitor's cart for the lifetime of a request. The cart is read from
// the store once in Load and fully rewritten after every mutation.
type Engine struct {
	store ports.CartStore
	ui    ports.Presenter
	items []entity.LineItem
}

// Load reads the persisted cart. A visitor without a cart starts empty.
func Load(ctx context.Context, store ports.CartStore, ui ports.Presenter) (*Engine, error) {
	items, err := store.LoadCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadCart: %w", err)
	}
	return &Engine{store: store, ui: ui, items: items}, nil
}

func (e *Engine) Store() ports.CartStore { return e.store }

func (e *Engine) Presenter() ports.Presenter { return e.ui }

// Items returns a copy of the cart in insertion order.
func (e *Engine) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(e.items))
	for i, it := range e.items {
		it.Customization = it.Customization.Clone()
		out[i] = it
	}
	return out
}

// Count is the number of distinct line items, not the summed quantity.
func (e *Engine) Count() int { return len(e.items) }

func (e *Engine) IsEmpty() bool { return len(e.items) == 0 }

// AddItem increments the quantity of an existing line item or appends a new one carrying
// a snapshot of the pending customization draft. The draft is cleared either way; a merge
// never applies it.
func (e *Engine) AddItem(ctx context.Context, productID int64, name string, price decimal.Decimal, imageURL string) error {
	draft, err := e.store.LoadDraft(ctx)
	if err != nil {
		return fmt.Errorf("store.LoadDraft: %w", err)
	}

	if i := e.indexOf(productID); i >= 0 {
		e.items[i].Quantity++
	} else {
		e.items = append(e.items, entity.LineItem{
			ID:            productID,
			Name:          name,
			Price:         price,
			ImageURL:      imageURL,
			Quantity:      1,
			Customization: draft.Clone(),
		})
	}

	// the draft is spent once attached, even when the cart write below fails
	draftErr := e.store.SaveDraft(ctx, entity.Customization{})
	if draftErr != nil {
		draftErr = fmt.Errorf("store.SaveDraft: %w", draftErr)
	}

	if err := e.persist(ctx, "add"); err != nil {
		return errors.Join(err, draftErr)
	}
	e.ui.RefreshCartIndicator(ctx, e.Count())
	e.ui.Notify(ctx, fmt.Sprintf("%s added to cart!", name), entity.NotificationSuccess)
	return draftErr
}

// RemoveItem drops the line item for productID. The cart page is re-rendered only when
// it is the current view.
func (e *Engine) RemoveItem(ctx context.Context, productID int64) error {
	e.items = slices.DeleteFunc(e.items, func(it entity.LineItem) bool {
		return it.ID == productID
	})

	if err := e.persist(ctx, "remove"); err != nil {
		return err
	}
	e.ui.RefreshCartIndicator(ctx, e.Count())
	e.rerender(ctx)
	return nil
}

// SetQuantity sets the quantity of an existing line item. A quantity of zero or less
// removes it. Unknown product ids are ignored.
func (e *Engine) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	i := e.indexOf(productID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		return e.RemoveItem(ctx, productID)
	}

	e.items[i].Quantity = quantity
	if err := e.persist(ctx, "set_quantity"); err != nil {
		return err
	}
	e.rerender(ctx)
	return nil
}

// Subtotal is the sum of price times quantity over all line items.
func (e *Engine) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range e.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Total equals Subtotal: shipping is always free.
func (e *Engine) Total() decimal.Decimal {
	return e.Subtotal()
}

// Clear empties the cart after a completed checkout.
func (e *Engine) Clear(ctx context.Context) error {
	e.items = []entity.LineItem{}
	if err := e.persist(ctx, "clear"); err != nil {
		return err
	}
	e.ui.RefreshCartIndicator(ctx, 0)
	return nil
}

// Restore puts back a previously cleared cart.
func (e *Engine) Restore(ctx context.Context, items []entity.LineItem) error {
	e.items = items
	if err := e.persist(ctx, "restore"); err != nil {
		return err
	}
	e.ui.RefreshCartIndicator(ctx, e.Count())
	return nil
}

func (e *Engine) indexOf(productID int64) int {
	return slices.IndexFunc(e.items, func(it entity.LineItem) bool {
		return it.ID == productID
	})
}

func (e *Engine) persist(ctx context.Context, op string) error {
	if err := e.store.SaveCart(ctx, e.items); err != nil {
		return fmt.Errorf("store.SaveCart: %w", err)
	}
	mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	return nil
}

func (e *Engine) rerender(ctx context.Context) {
	if e.ui.CurrentView() == entity.ViewCart {
		e.ui.RenderCartPage(ctx, e.Items())
	}
}
