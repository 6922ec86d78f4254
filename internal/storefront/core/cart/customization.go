package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/money"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

// WillowTypeField is the customization field that drives the displayed price.
const WillowTypeField = "willow_type"

// ErrUnknownWillowType is returned when a willow type has no entry in the price table.
var ErrUnknownWillowType = errors.New("unknown willow type")

var willowPrices = map[string]decimal.Decimal{
	"english_willow":         decimal.NewFromInt(23450),
	"duo_core_willow":        decimal.NewFromInt(28999),
	"premium_english_willow": decimal.NewFromInt(35678),
	"practice_willow":        decimal.NewFromInt(12345),
}

// WillowPrice looks up the price shown for a willow type.
func WillowPrice(value string) (decimal.Decimal, error) {
	p, ok := willowPrices[value]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownWillowType, value)
	}
	return p, nil
}

// Customizer records customization choices until the next AddItem consumes them.
type Customizer struct {
	store ports.CartStore
	ui    ports.Presenter
}

func NewCustomizer(store ports.CartStore, ui ports.Presenter) *Customizer {
	return &Customizer{store: store, ui: ui}
}

// SetField upserts a choice into the draft. Field names and values are not validated.
// Choosing an unknown willow type keeps the selection, leaves the displayed price as it
// was and returns ErrUnknownWillowType.
func (c *Customizer) SetField(ctx context.Context, field, value string) error {
	draft, err := c.store.LoadDraft(ctx)
	if err != nil {
		return fmt.Errorf("store.LoadDraft: %w", err)
	}
	if draft == nil {
		draft = entity.Customization{}
	}
	draft[field] = value

	if err := c.store.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("store.SaveDraft: %w", err)
	}

	if field != WillowTypeField {
		return nil
	}

	price, err := WillowPrice(value)
	if err != nil {
		c.ui.Notify(ctx, "Price for this willow type is not available.", entity.NotificationWarning)
		return err
	}
	c.ui.ShowProductPrice(ctx, money.Format(price))
	return nil
}

// Draft returns the pending choices.
func (c *Customizer) Draft(ctx context.Context) (entity.Customization, error) {
	draft, err := c.store.LoadDraft(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadDraft: %w", err)
	}
	return draft.Clone(), nil
}
