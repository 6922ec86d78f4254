package httpx

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

// formFields are form values that carry routing information, not customization.
var formFields = []string{"return_to", "fragment"}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.session(r), view.PageProducts, view.Page{
		Title:    "Products",
		View:     entity.ViewProducts,
		Products: catalog.ListProducts(),
	})
}

// GetProduct shows one product with its customization form. The displayed price follows
// the willow type already chosen in the draft.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	s := h.session(r)
	ui := newPagePresenter(entity.ViewProduct, h.banners(s))

	draft, err := cart.NewCustomizer(s, ui).Draft(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	price := view.FormatPrice(p.Price)
	if wt, ok := draft[cart.WillowTypeField]; ok {
		if wp, err := cart.WillowPrice(wt); err == nil {
			price = view.FormatPrice(wp)
		}
	}

	h.render(w, r, s, view.PageProduct, view.Page{
		Title:   p.Name,
		View:    entity.ViewProduct,
		Product: p,
		Price:   price,
		Options: view.CustomizationGroups,
		Draft:   draft,
	})
}

// Customize records every submitted radio choice in the draft. With fragment=price
// the response is the price to display; otherwise the visitor is sent back to the product.
func (h *Handler) Customize(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}

	fields := make([]string, 0, len(r.PostForm))
	for k := range r.PostForm {
		if !slices.Contains(formFields, k) {
			fields = append(fields, k)
		}
	}
	slices.Sort(fields)

	ctx := r.Context()
	s := h.session(r)
	ui := newPagePresenter(entity.ViewProduct, h.banners(s))
	c := cart.NewCustomizer(s, ui)

	for _, field := range fields {
		err := c.SetField(ctx, field, r.PostForm.Get(field))
		if err != nil && !errors.Is(err, cart.ErrUnknownWillowType) {
			h.fail(w, r, err)
			return
		}
	}

	if r.PostForm.Get("fragment") == "price" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ui.productPrice()))
		return
	}
	http.Redirect(w, r, "/products/"+strconv.FormatInt(p.ID, 10), http.StatusSeeOther)
}

// AddToCart adds one unit of the product, consuming the customization draft.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.product(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	s := h.session(r)
	ui := h.presenter(r, s)

	e, err := cart.Load(ctx, s, ui)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := e.AddItem(ctx, p.ID, p.Name, p.Price, p.ImageURL); err != nil {
		h.fail(w, r, err)
		return
	}
	h.finish(w, r, s, ui, "/products")
}

func (h *Handler) product(w http.ResponseWriter, r *http.Request) (entity.Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "")
		return entity.Product{}, false
	}
	p, err := catalog.Find(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return entity.Product{}, false
	}
	return p, true
}
