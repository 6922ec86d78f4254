package ports

import (
	"context"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
)

// Presenter is the user-interface surface the cart and checkout act on.
type Presenter interface {
	CurrentView() entity.View
	RefreshCartIndicator(ctx context.Context, count int)
	RenderCartPage(ctx context.Context, items []entity.LineItem)
	ShowProductPrice(ctx context.Context, price string)
	Notify(ctx context.Context, message string, kind entity.NotificationKind)
	Navigate(ctx context.Context, nav entity.Navigation)
}
