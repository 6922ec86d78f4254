// Package portstest provides recording fakes of the core ports for tests.
package portstest

import (
	"context"
	"sync"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

var _ ports.Presenter = (*Presenter)(nil)

type Notice struct {
	Message string
	Kind    entity.NotificationKind
}

// Presenter records every effect requested of it.
type Presenter struct {
	mu sync.Mutex

	View        entity.View
	Indicator   []int
	CartRenders [][]entity.LineItem
	Prices      []string
	Notices     []Notice
	Navigations []entity.Navigation
}

func NewPresenter(view entity.View) *Presenter {
	return &Presenter{View: view}
}

func (p *Presenter) CurrentView() entity.View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.View
}

func (p *Presenter) RefreshCartIndicator(_ context.Context, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Indicator = append(p.Indicator, count)
}

func (p *Presenter) RenderCartPage(_ context.Context, items []entity.LineItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CartRenders = append(p.CartRenders, items)
}

func (p *Presenter) ShowProductPrice(_ context.Context, price string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Prices = append(p.Prices, price)
}

func (p *Presenter) Notify(_ context.Context, message string, kind entity.NotificationKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Notices = append(p.Notices, Notice{Message: message, Kind: kind})
}

func (p *Presenter) Navigate(_ context.Context, nav entity.Navigation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Navigations = append(p.Navigations, nav)
}

// LastIndicator returns the most recent indicator count, or -1 if it was never refreshed.
func (p *Presenter) LastIndicator() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Indicator) == 0 {
		return -1
	}
	return p.Indicator[len(p.Indicator)-1]
}
