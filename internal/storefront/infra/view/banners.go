package view

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

// DefaultBannerTTL is how long a banner stays visible unless dismissed.
const DefaultBannerTTL = 5 * time.Second

// Banners is a visitor's stack of flash messages. Each banner expires on its own
// deadline; expired banners are dropped the next time the stack is read.
type Banners struct {
	store ports.NotificationStore
	ttl   time.Duration
	now   func() time.Time
}

func NewBanners(store ports.NotificationStore, ttl time.Duration, now func() time.Time) *Banners {
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Banners{store: store, ttl: ttl, now: now}
}

// Push appends a banner to the stack.
func (b *Banners) Push(ctx context.Context, message string, kind entity.NotificationKind) (entity.Notification, error) {
	list, err := b.store.LoadNotifications(ctx)
	if err != nil {
		return entity.Notification{}, fmt.Errorf("store.LoadNotifications: %w", err)
	}

	n := entity.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		ExpiresAt: b.now().Add(b.ttl),
	}
	list = append(b.live(list), n)

	if err := b.store.SaveNotifications(ctx, list); err != nil {
		return entity.Notification{}, fmt.Errorf("store.SaveNotifications: %w", err)
	}
	return n, nil
}

// Active returns the banners that have not expired, oldest first.
func (b *Banners) Active(ctx context.Context) ([]entity.Notification, error) {
	list, err := b.store.LoadNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadNotifications: %w", err)
	}

	live := b.live(list)
	if len(live) != len(list) {
		if err := b.store.SaveNotifications(ctx, live); err != nil {
			return nil, fmt.Errorf("store.SaveNotifications: %w", err)
		}
	}
	return live, nil
}

// Dismiss removes one banner. Unknown ids are ignored.
func (b *Banners) Dismiss(ctx context.Context, id string) error {
	list, err := b.store.LoadNotifications(ctx)
	if err != nil {
		return fmt.Errorf("store.LoadNotifications: %w", err)
	}

	kept := slices.DeleteFunc(b.live(list), func(n entity.Notification) bool { return n.ID == id })
	if err := b.store.SaveNotifications(ctx, kept); err != nil {
		return fmt.Errorf("store.SaveNotifications: %w", err)
	}
	return nil
}

func (b *Banners) live(list []entity.Notification) []entity.Notification {
	now := b.now()
	out := make([]entity.Notification, 0, len(list))
	for _, n := range list {
		if now.Before(n.ExpiresAt) {
			out = append(out, n)
		}
	}
	return out
}
