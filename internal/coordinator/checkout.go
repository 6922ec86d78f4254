package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/constants"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

// ErrEmptyCart is returned when checkout is attempted with no items in the cart.
var ErrEmptyCart = errors.New("cart is empty")

const (
	msgEmptyCart      = "Your cart is empty!"
	msgPaymentSuccess = "Payment successful! Your order has been confirmed."
	msgPaymentFailed  = "Payment failed: "
	msgPaymentDismiss = "Payment cancelled. You can try again."
	msgCODPlaced      = "Order placed successfully! You will pay on delivery."
	msgOrderNotSaved  = "We could not record your order. Please try again."
)

var ordersPlaced, _ = otel.Meter("storefront/checkout").Int64Counter(
	"checkout.orders",
	metric.WithDescription("Completed checkouts by payment method"),
)

// Config is what the payment widget is opened with, plus the pause before the
// confirmation page is shown.
type Config struct {
	Key             string
	Currency        string
	MerchantName    string
	Description     string
	NavigationDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		Key:             "rzp_test_hkQ8kyfqkMQNiq",
		Currency:        "INR",
		MerchantName:    "Cricket Secret",
		Description:     "Cricket Bat Purchase",
		NavigationDelay: 2 * time.Second,
	}
}

type Option func(*Checkout)

// WithSagaLog persists every saga transition. Without it nothing is logged.
func WithSagaLog(repo sagalog.Repository) Option {
	return func(c *Checkout) { c.sagaLog = repo }
}

// WithPublisher announces completed orders. Publish failures are logged only.
func WithPublisher(p ports.OrderPublisher) Option {
	return func(c *Checkout) { c.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(c *Checkout) { c.now = now }
}

// Checkout drives both checkout flows against a visitor's cart.
type Checkout struct {
	cfg       Config
	gateway   ports.PaymentGateway
	sagaLog   sagalog.Repository
	publisher ports.OrderPublisher
	now       func() time.Time
}

func NewCheckout(cfg Config, gateway ports.PaymentGateway, opts ...Option) *Checkout {
	c := &Checkout{
		cfg:     cfg,
		gateway: gateway,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeginCheckout moves a visitor with a non-empty cart to the checkout view.
// An empty cart only produces a warning; nothing is stored or navigated.
func (c *Checkout) BeginCheckout(ctx context.Context, e *cart.Engine) error {
	if err := c.guard(ctx, e); err != nil {
		return err
	}
	e.Presenter().Navigate(ctx, entity.Navigation{View: entity.ViewCheckout})
	return nil
}

// InitializePayment opens a payment widget session for order. The callbacks reload the
// cart when they fire, so the order captures the cart as it is at that moment.
func (c *Checkout) InitializePayment(ctx context.Context, e *cart.Engine, order entity.PaymentOrder) error {
	if err := c.guard(ctx, e); err != nil {
		return err
	}
	if order.ID == "" {
		order.ID = "order_" + uuid.NewString()
	}
	owner, _ := ctx.Value(constants.ContextKeySessionID).(string)

	cfg := ports.PaymentConfig{
		Key:          c.cfg.Key,
		Amount:       order.Amount,
		Currency:     c.cfg.Currency,
		OrderID:      order.ID,
		MerchantName: c.cfg.MerchantName,
		Description:  c.cfg.Description,
		Customer: ports.PaymentPrefill{
			Name:    order.Customer.Name,
			Email:   order.Customer.Email,
			Contact: order.Customer.Phone,
		},
		Owner: owner,
	}

	store := e.Store()
	callbacks := ports.PaymentCallbacks{
		OnSuccess: func(ctx context.Context, ui ports.Presenter, res ports.PaymentSuccess) {
			c.onPaymentSuccess(ctx, store, ui, order, res)
		},
		OnFailure: func(ctx context.Context, ui ports.Presenter, res ports.PaymentFailure) {
			slog.InfoContext(ctx, "payment failed", "order_id", order.ID, "reason", res.Description)
			ui.Notify(ctx, msgPaymentFailed+res.Description, entity.NotificationError)
		},
		OnDismiss: func(ctx context.Context, ui ports.Presenter) {
			slog.InfoContext(ctx, "payment dismissed", "order_id", order.ID)
			ui.Notify(ctx, msgPaymentDismiss, entity.NotificationWarning)
		},
	}

	if err := c.gateway.Open(ctx, cfg, callbacks); err != nil {
		return fmt.Errorf("gateway.Open: %w", err)
	}
	slog.InfoContext(ctx, "payment session opened", "order_id", order.ID, "amount_minor", order.Amount)
	return nil
}

func (c *Checkout) onPaymentSuccess(
	ctx context.Context,
	store ports.CartStore,
	ui ports.Presenter,
	order entity.PaymentOrder,
	res ports.PaymentSuccess,
) {
	e, err := cart.Load(ctx, store, ui)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load cart after payment", "payment_id", res.PaymentID, "error", err)
		ui.Notify(ctx, msgOrderNotSaved, entity.NotificationError)
		return
	}

	record := entity.OrderRecord{
		PaymentID: res.PaymentID,
		OrderID:   res.OrderID,
		Signature: res.Signature,
		Method:    entity.PaymentMethodOnline,
		Status:    entity.OrderStatusPaid,
		Amount:    entity.FromMinorUnits(order.Amount),
		Customer:  order.Customer,
		Items:     e.Items(),
		Timestamp: c.now().UTC(),
	}

	if err := c.complete(ctx, e, record); err != nil {
		ui.Notify(ctx, msgOrderNotSaved, entity.NotificationError)
		return
	}

	ui.Notify(ctx, msgPaymentSuccess, entity.NotificationSuccess)
	ui.Navigate(ctx, entity.Navigation{
		View:  entity.ViewOrderConfirmation,
		Query: url.Values{"payment_id": {res.PaymentID}},
		Delay: c.cfg.NavigationDelay,
	})
}

// ProcessCODOrder places a cash-on-delivery order for the current cart.
func (c *Checkout) ProcessCODOrder(ctx context.Context, e *cart.Engine, customer entity.Customer) (entity.OrderRecord, error) {
	if err := c.guard(ctx, e); err != nil {
		return entity.OrderRecord{}, err
	}

	now := c.now()
	record := entity.OrderRecord{
		OrderID:   "COD_" + strconv.FormatInt(now.UnixMilli(), 10),
		Method:    entity.PaymentMethodCOD,
		Status:    entity.OrderStatusConfirmed,
		Amount:    e.Total(),
		Customer:  customer,
		Items:     e.Items(),
		Timestamp: now.UTC(),
	}

	if err := c.complete(ctx, e, record); err != nil {
		return entity.OrderRecord{}, err
	}

	ui := e.Presenter()
	ui.Notify(ctx, msgCODPlaced, entity.NotificationSuccess)
	ui.Navigate(ctx, entity.Navigation{
		View:  entity.ViewOrderConfirmation,
		Query: url.Values{"method": {string(entity.PaymentMethodCOD)}, "order_id": {record.OrderID}},
		Delay: c.cfg.NavigationDelay,
	})
	return record, nil
}

// LastOrder returns the most recently completed order, or ports.ErrKeyNotFound.
func (c *Checkout) LastOrder(ctx context.Context, store ports.CartStore) (*entity.OrderRecord, error) {
	return store.LoadLastOrder(ctx)
}

func (c *Checkout) guard(ctx context.Context, e *cart.Engine) error {
	if e.IsEmpty() {
		e.Presenter().Notify(ctx, msgEmptyCart, entity.NotificationWarning)
		return ErrEmptyCart
	}
	return nil
}

// complete stores the order as the last one and empties the cart. A failure in either
// step leaves both as they were.
func (c *Checkout) complete(ctx context.Context, e *cart.Engine, record entity.OrderRecord) error {
	steps := []Step{
		NewSaveLastOrderStep(e.Store(), record),
		NewClearCartStep(e),
	}

	saga := NewOrchestrator(record.OrderID, steps, c.sagaLog)
	if payload, err := json.Marshal(record); err == nil {
		saga.WithPayload(string(payload))
	}

	if err := saga.Start(ctx); err != nil {
		slog.ErrorContext(ctx, "checkout saga failed", "order_id", record.OrderID, "error", err)
		return err
	}

	ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("method", string(record.Method))))
	slog.InfoContext(ctx, "order placed",
		"order_id", record.OrderID,
		"method", record.Method,
		"amount", record.Amount.String(),
		"items", len(record.Items),
	)

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, record.OrderID, entity.NewOrderPlacedEvent(record)); err != nil {
			slog.ErrorContext(ctx, "failed to publish order placed event", "order_id", record.OrderID, "error", err)
		}
	}
	return nil
}
