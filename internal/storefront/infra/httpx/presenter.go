package httpx

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

var _ ports.Presenter = (*pagePresenter)(nil)

// pagePresenter collects the effects of one request. Notifications go straight to the
// visitor's banner stack so they survive the redirect; everything else is recorded and
// turned into a response by the handler.
type pagePresenter struct {
	view    entity.View
	banners *view.Banners

	mu       sync.Mutex
	count    int
	counted  bool
	cart     []entity.LineItem
	rendered bool
	price    string
	nav      *entity.Navigation
}

func newPagePresenter(current entity.View, banners *view.Banners) *pagePresenter {
	return &pagePresenter{view: current, banners: banners}
}

func (p *pagePresenter) CurrentView() entity.View { return p.view }

func (p *pagePresenter) RefreshCartIndicator(_ context.Context, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count, p.counted = count, true
}

func (p *pagePresenter) RenderCartPage(_ context.Context, items []entity.LineItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cart, p.rendered = items, true
}

func (p *pagePresenter) ShowProductPrice(_ context.Context, price string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
}

func (p *pagePresenter) Notify(ctx context.Context, message string, kind entity.NotificationKind) {
	if _, err := p.banners.Push(ctx, message, kind); err != nil {
		slog.ErrorContext(ctx, "failed to queue notification", "kind", kind, "error", err)
	}
}

func (p *pagePresenter) Navigate(_ context.Context, nav entity.Navigation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nav = &nav
}

func (p *pagePresenter) navigation() *entity.Navigation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nav
}

func (p *pagePresenter) renderedCart() ([]entity.LineItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cart, p.rendered
}

func (p *pagePresenter) cartCount() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count, p.counted
}

func (p *pagePresenter) productPrice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.price
}

// viewFromPath maps a local path to the view it shows.
func viewFromPath(path string) entity.View {
	switch {
	case path == "/cart":
		return entity.ViewCart
	case path == "/checkout" || strings.HasPrefix(path, "/checkout/"):
		return entity.ViewCheckout
	case path == "/order_confirmation":
		return entity.ViewOrderConfirmation
	case path == "/contact":
		return entity.ViewContact
	case strings.HasPrefix(path, "/products/"):
		return entity.ViewProduct
	default:
		return entity.ViewProducts
	}
}
