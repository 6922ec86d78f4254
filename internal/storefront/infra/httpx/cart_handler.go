package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	items, err := s.LoadCart(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	html, err := h.renderer.CartPage(items)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, s, view.PageCart, view.Page{
		Title: "Cart",
		View:  entity.ViewCart,
		Cart:  html,
	})
}

// GetCartJSON returns the cart with its totals.
func (h *Handler) GetCartJSON(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	e, err := cart.Load(r.Context(), s, h.presenter(r, s))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CartResponse{
		Items:    e.Items(),
		Count:    e.Count(),
		Subtotal: e.Subtotal(),
		Total:    e.Total(),
	})
}

// SetQuantity sets a line item's quantity; zero or less removes it.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_quantity", "")
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
	if err := e.SetQuantity(ctx, id, quantity); err != nil {
		h.fail(w, r, err)
		return
	}
	h.finish(w, r, s, ui, "/cart")
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
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
	if err := e.RemoveItem(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.finish(w, r, s, ui, "/cart")
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_item_id", "")
		return 0, false
	}
	return id, true
}
