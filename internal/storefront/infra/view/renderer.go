// Package view renders the storefront pages with html/template.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page template names.
const (
	PageProducts     = "products"
	PageProduct      = "product"
	PageCart         = "cart"
	PageCheckout     = "checkout"
	PagePayment      = "payment"
	PageConfirmation = "confirmation"
	PageContact      = "contact"
	PageRedirect     = "redirect"
)

var pageFiles = []string{
	PageProducts, PageProduct, PageCart, PageCheckout,
	PagePayment, PageConfirmation, PageContact, PageRedirect,
}

// Page is the data every page template receives. Only the fields of the
// rendered view are set.
type Page struct {
	Title     string
	View      entity.View
	Path      string
	CartCount int
	Banners   []entity.Notification

	Products []entity.Product
	Product  entity.Product
	Price    string
	Options  []CustomizationGroup
	Draft    entity.Customization

	Cart  template.HTML
	Items []entity.LineItem
	Total decimal.Decimal

	Payment ports.PaymentConfig

	Order     *entity.OrderRecord
	PaymentID string
	Method    string
	OrderID   string

	RedirectURL   string
	RedirectAfter int
}

type cartData struct {
	Items    []entity.LineItem
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

type Renderer struct {
	pages map[string]*template.Template
	cart  *template.Template
}

var funcs = template.FuncMap{
	"price":       FormatPrice,
	"minor":       func(amount int64) string { return FormatPrice(entity.FromMinorUnits(amount)) },
	"label":       FormatLabel,
	"placeholder": PlaceholderImage,
	"add":         func(a, b int) int { return a + b },
	"alertClass": func(kind entity.NotificationKind) string {
		if kind == entity.NotificationError {
			return "danger"
		}
		return string(kind)
	},
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}

	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/cart_container.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}

	cart, err := template.New("cart_container").Funcs(funcs).ParseFS(templatesFS, "templates/cart_container.html")
	if err != nil {
		return nil, fmt.Errorf("parse cart template: %w", err)
	}
	r.cart = cart
	return r, nil
}

// Render writes a full page.
func (r *Renderer) Render(w io.Writer, page string, data Page) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// CartPage renders the cart container: the empty state, or one card per item
// followed by the order summary.
func (r *Renderer) CartPage(items []entity.LineItem) (template.HTML, error) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}

	var buf bytes.Buffer
	if err := r.cart.ExecuteTemplate(&buf, "cart_container", cartData{Items: items, Subtotal: total, Total: total}); err != nil {
		return "", fmt.Errorf("render cart: %w", err)
	}
	return template.HTML(buf.String()), nil
}
