package view_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	r, err := view.NewRenderer()
	require.NoError(t, err)
	return r
}

func TestCartPage_Empty(t *testing.T) {
	html, err := newRenderer(t).CartPage(nil)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "Your cart is empty")
	assert.Contains(t, out, "Looks like you haven't added any items to your cart yet.")
	assert.Contains(t, out, `href="/products"`)
	assert.Contains(t, out, "Start Shopping")
	assert.NotContains(t, out, "Order Summary")
}

func TestCartPage_WithItems(t *testing.T) {
	items := []entity.LineItem{
		{
			ID: 1, Name: "Cricket Secret Professional Elite", Price: decimal.NewFromInt(23450),
			ImageURL: "bat1.jpg", Quantity: 2,
			Customization: entity.Customization{"willow_type": "premium_english_willow", "grip_color": "red"},
		},
		{ID: 4, Name: "Cricket Secret Practice Pro", Price: decimal.NewFromInt(12345), ImageURL: "bat1.jpg", Quantity: 1},
	}

	html, err := newRenderer(t).CartPage(items)
	require.NoError(t, err)
	out := string(html)

	assert.Equal(t, 2, strings.Count(out, `class="card mb-3"`))
	assert.Contains(t, out, "₹23,450")
	assert.Contains(t, out, "₹46,900", "line total")
	assert.Contains(t, out, "₹59,245", "subtotal and total")
	assert.Equal(t, 2, strings.Count(out, "₹59,245"))
	assert.Contains(t, out, "Free")
	assert.Contains(t, out, "Qty: 2")
	assert.Contains(t, out, `action="/cart/items/1/quantity"`)
	assert.Contains(t, out, `name="quantity" value="1"`)
	assert.Contains(t, out, `name="quantity" value="3"`)
	assert.Contains(t, out, `action="/cart/items/4/remove"`)
	assert.Contains(t, out, "Willow Type: Premium English Willow")
	assert.Contains(t, out, "Grip Color: Red")
	assert.Less(t, strings.Index(out, "Grip Color"), strings.Index(out, "Willow Type"), "customizations list in key order")
	assert.Equal(t, 1, strings.Count(out, "Customizations:"), "items without customization show none")
	assert.Contains(t, out, "via.placeholder.com")
	assert.Contains(t, out, "Proceed to Checkout")
}

func TestRender_Pages(t *testing.T) {
	r := newRenderer(t)
	cartHTML, err := r.CartPage(nil)
	require.NoError(t, err)
	product := catalog.ListProducts()[0]

	tests := []struct {
		page string
		data view.Page
		want []string
	}{
		{
			page: view.PageProducts,
			data: view.Page{View: entity.ViewProducts, Products: catalog.ListProducts()},
			want: []string{"Cricket Secret Practice Pro", "₹12,345", `action="/products/3/cart"`},
		},
		{
			page: view.PageProduct,
			data: view.Page{
				View: entity.ViewProduct, Product: product, Price: "₹35,678",
				Options: view.CustomizationGroups, Draft: entity.Customization{"willow_type": "premium_english_willow"},
			},
			want: []string{`id="product-price">₹35,678`, `id="customization-form"`, `value="premium_english_willow"`, " checked", "Handle Type"},
		},
		{
			page: view.PageCart,
			data: view.Page{View: entity.ViewCart, Cart: cartHTML},
			want: []string{"Shopping Cart", `id="cart-container"`},
		},
		{
			page: view.PageCheckout,
			data: view.Page{View: entity.ViewCheckout, Items: []entity.LineItem{{Name: "Bat", Price: decimal.NewFromInt(500), Quantity: 1}}, Total: decimal.NewFromInt(500)},
			want: []string{`action="/checkout/online"`, `formaction="/checkout/cod"`, "₹500"},
		},
		{
			page: view.PagePayment,
			data: view.Page{View: entity.ViewCheckout, Payment: ports.PaymentConfig{
				OrderID: "order_1", Amount: 2345000, Currency: "INR", MerchantName: "Cricket Secret",
				Customer: ports.PaymentPrefill{Name: "Asha"},
			}},
			want: []string{"₹23,450", `action="/checkout/payment/order_1/success"`, `/checkout/payment/order_1/dismiss`, "Asha"},
		},
		{
			page: view.PageConfirmation,
			data: view.Page{View: entity.ViewOrderConfirmation, Method: "cod", OrderID: "COD_1", Order: &entity.OrderRecord{
				OrderID: "COD_1", Method: entity.PaymentMethodCOD, Status: entity.OrderStatusConfirmed,
				Amount: decimal.NewFromInt(500), Timestamp: time.Unix(0, 0).UTC(),
			}},
			want: []string{"COD_1", "Cash on Delivery", "Confirmed", "₹500"},
		},
		{
			page: view.PageConfirmation,
			data: view.Page{View: entity.ViewOrderConfirmation},
			want: []string{"No recent order found."},
		},
		{
			page: view.PageContact,
			data: view.Page{View: entity.ViewContact},
			want: []string{`action="/contact"`, "Send Message"},
		},
		{
			page: view.PageRedirect,
			data: view.Page{RedirectURL: "/order_confirmation?payment_id=pay_1", RedirectAfter: 2},
			want: []string{`http-equiv="refresh"`, `content="2;url=/order_confirmation?payment_id=pay_1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, tt.page, tt.data))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRender_Layout(t *testing.T) {
	r := newRenderer(t)

	var empty bytes.Buffer
	require.NoError(t, r.Render(&empty, view.PageContact, view.Page{View: entity.ViewContact}))
	assert.Contains(t, empty.String(), `id="cart-count" class="badge bg-primary" style="display: none"`)

	var full bytes.Buffer
	require.NoError(t, r.Render(&full, view.PageContact, view.Page{
		View:      entity.ViewContact,
		Path:      "/contact",
		CartCount: 3,
		Banners: []entity.Notification{
			{ID: "b1", Message: "Bat added to cart!", Kind: entity.NotificationSuccess},
			{ID: "b2", Message: "Payment failed: declined", Kind: entity.NotificationError},
		},
	}))
	out := full.String()
	assert.Contains(t, out, `id="cart-count" class="badge bg-primary">3<`)
	assert.Contains(t, out, "alert-success")
	assert.Contains(t, out, "alert-danger")
	assert.Contains(t, out, `action="/flash/b2/dismiss"`)
	assert.Contains(t, out, `name="return_to" value="/contact"`)
}

func TestRender_UnknownPage(t *testing.T) {
	assert.Error(t, newRenderer(t).Render(&bytes.Buffer{}, "nope", view.Page{}))
}
