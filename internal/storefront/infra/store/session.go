package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

// Keys under which a visitor's state is stored.
const (
	KeyCart          = "cart"
	KeyLastOrder     = "lastOrder"
	KeyCustomization = "customization"
	KeyFlash         = "flash"
)

var (
	_ ports.CartStore         = (*Session)(nil)
	_ ports.NotificationStore = (*Session)(nil)
)

// Session is one visitor's slice of a KV backend. Every key is prefixed with the
// visitor id so sessions never observe each other.
type Session struct {
	kv        ports.KV
	visitorID string
}

func NewSession(kv ports.KV, visitorID string) *Session {
	return &Session{kv: kv, visitorID: visitorID}
}

func (s *Session) VisitorID() string { return s.visitorID }

func (s *Session) key(name string) string {
	return s.visitorID + ":" + name
}

// LoadCart returns an empty cart when nothing has been stored yet.
func (s *Session) LoadCart(ctx context.Context) ([]entity.LineItem, error) {
	items := []entity.LineItem{}
	found, err := s.load(ctx, KeyCart, &items)
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		return []entity.LineItem{}, nil
	}
	return items, nil
}

func (s *Session) SaveCart(ctx context.Context, items []entity.LineItem) error {
	if items == nil {
		items = []entity.LineItem{}
	}
	return s.save(ctx, KeyCart, items)
}

func (s *Session) LoadDraft(ctx context.Context) (entity.Customization, error) {
	draft := entity.Customization{}
	if _, err := s.load(ctx, KeyCustomization, &draft); err != nil {
		return nil, err
	}
	if draft == nil {
		draft = entity.Customization{}
	}
	return draft, nil
}

func (s *Session) SaveDraft(ctx context.Context, draft entity.Customization) error {
	if draft == nil {
		draft = entity.Customization{}
	}
	return s.save(ctx, KeyCustomization, draft)
}

func (s *Session) LoadLastOrder(ctx context.Context) (*entity.OrderRecord, error) {
	var order entity.OrderRecord
	found, err := s.load(ctx, KeyLastOrder, &order)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ports.ErrKeyNotFound
	}
	return &order, nil
}

func (s *Session) SaveLastOrder(ctx context.Context, order entity.OrderRecord) error {
	return s.save(ctx, KeyLastOrder, order)
}

func (s *Session) DeleteLastOrder(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key(KeyLastOrder)); err != nil {
		return fmt.Errorf("kv.Delete %s: %w", KeyLastOrder, err)
	}
	return nil
}

func (s *Session) LoadNotifications(ctx context.Context) ([]entity.Notification, error) {
	var list []entity.Notification
	if _, err := s.load(ctx, KeyFlash, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Session) SaveNotifications(ctx context.Context, list []entity.Notification) error {
	if len(list) == 0 {
		if err := s.kv.Delete(ctx, s.key(KeyFlash)); err != nil {
			return fmt.Errorf("kv.Delete %s: %w", KeyFlash, err)
		}
		return nil
	}
	return s.save(ctx, KeyFlash, list)
}

func (s *Session) load(ctx context.Context, name string, dst any) (bool, error) {
	data, err := s.kv.Get(ctx, s.key(name))
	if errors.Is(err, ports.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv.Get %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return true, nil
}

func (s *Session) save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, s.key(name), data); err != nil {
		return fmt.Errorf("kv.Set %s: %w", name, err)
	}
	return nil
}
