package ports

import (
	"context"
	"errors"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
)

// ErrKeyNotFound is returned by KV implementations when a key has never been written
// or has been deleted.
var ErrKeyNotFound = errors.New("key not found")

// KV is the persistent key-value store the storefront keeps visitor state in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CartStore is one visitor's view of the KV: the cart, the pending customization draft
// and the most recent order.
type CartStore interface {
	LoadCart(ctx context.Context) ([]entity.LineItem, error)
	SaveCart(ctx context.Context, items []entity.LineItem) error

	LoadDraft(ctx context.Context) (entity.Customization, error)
	SaveDraft(ctx context.Context, draft entity.Customization) error

	// LoadLastOrder returns ErrKeyNotFound when no order has been placed yet.
	LoadLastOrder(ctx context.Context) (*entity.OrderRecord, error)
	SaveLastOrder(ctx context.Context, order entity.OrderRecord) error
	DeleteLastOrder(ctx context.Context) error
}

// NotificationStore keeps the banners queued for one visitor.
type NotificationStore interface {
	LoadNotifications(ctx context.Context) ([]entity.Notification, error)
	SaveNotifications(ctx context.Context, list []entity.Notification) error
}
