package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/payment"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

// BeginCheckout moves to the checkout page, or back with a warning if the cart is empty.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.session(r)
	ui := h.presenter(r, s)

	e, err := cart.Load(ctx, s, ui)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.checkout.BeginCheckout(ctx, e); err != nil && !errors.Is(err, coordinator.ErrEmptyCart) {
		h.fail(w, r, err)
		return
	}
	h.finish(w, r, s, ui, "/cart")
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	e, err := cart.Load(r.Context(), s, newPagePresenter(entity.ViewCheckout, h.banners(s)))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, s, view.PageCheckout, view.Page{
		Title: "Checkout",
		View:  entity.ViewCheckout,
		Items: e.Items(),
		Total: e.Total(),
	})
}

// PayOnDelivery places a cash-on-delivery order.
func (h *Handler) PayOnDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.session(r)
	ui := newPagePresenter(entity.ViewCheckout, h.banners(s))

	e, err := cart.Load(ctx, s, ui)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, err = h.checkout.ProcessCODOrder(ctx, e, customerFromForm(r))
	switch {
	case errors.Is(err, coordinator.ErrEmptyCart):
		h.finish(w, r, s, ui, "/cart")
		return
	case err != nil:
		ui.Notify(ctx, msgOrderFailed, entity.NotificationError)
	}
	h.finish(w, r, s, ui, "/checkout")
}

// PayOnline opens a payment widget session for the cart total and sends the visitor
// to the widget.
func (h *Handler) PayOnline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.session(r)
	ui := newPagePresenter(entity.ViewCheckout, h.banners(s))

	e, err := cart.Load(ctx, s, ui)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	order := entity.PaymentOrder{
		ID:       "order_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:   entity.ToMinorUnits(e.Total()),
		Customer: customerFromForm(r),
	}
	err = h.checkout.InitializePayment(ctx, e, order)
	switch {
	case errors.Is(err, coordinator.ErrEmptyCart):
		h.finish(w, r, s, ui, "/cart")
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/checkout/payment/"+order.ID, http.StatusSeeOther)
}

// GetPayment renders the widget for an open session owned by the visitor.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	cfg, err := h.widget.Config(orderID)
	if errors.Is(err, payment.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "payment_session_not_found", "")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if cfg.Owner != middlewares.SessionID(r.Context()) {
		writeError(w, http.StatusForbidden, "payment_session_not_owned", "")
		return
	}

	h.render(w, r, h.session(r), view.PagePayment, view.Page{
		Title:   "Payment",
		View:    entity.ViewCheckout,
		Payment: cfg,
	})
}

// ResolvePayment is the widget reporting what the visitor did.
func (h *Handler) ResolvePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.session(r)
	ui := newPagePresenter(entity.ViewCheckout, h.banners(s))

	res := payment.Result{
		Outcome:     payment.Outcome(chi.URLParam(r, "outcome")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	err := h.widget.Resolve(ctx, ui, s.VisitorID(), chi.URLParam(r, "orderID"), res)
	switch {
	case errors.Is(err, payment.ErrUnknownOutcome):
		writeError(w, http.StatusBadRequest, "unknown_outcome", err.Error())
		return
	case errors.Is(err, payment.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "payment_session_not_found", "")
		return
	case errors.Is(err, payment.ErrSessionNotOwned):
		writeError(w, http.StatusForbidden, "payment_session_not_owned", "")
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	h.finish(w, r, s, ui, "/checkout")
}

// GetConfirmation shows the visitor's most recent order.
func (h *Handler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	order, err := h.checkout.LastOrder(r.Context(), s)
	if err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	h.render(w, r, s, view.PageConfirmation, view.Page{
		Title:     "Order Confirmation",
		View:      entity.ViewOrderConfirmation,
		Order:     order,
		PaymentID: q.Get("payment_id"),
		Method:    q.Get("method"),
		OrderID:   q.Get("order_id"),
	})
}

// GetLastOrderJSON returns the most recent order, 404 when none was placed.
func (h *Handler) GetLastOrderJSON(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.LastOrder(r.Context(), h.session(r))
	if errors.Is(err, ports.ErrKeyNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GetCheckoutsJSON lists the visitor's checkouts as recorded in the saga log.
func (h *Handler) GetCheckoutsJSON(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "checkout_log_disabled", "")
		return
	}
	entries, err := h.history.Visitor(r.Context(), middlewares.SessionID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]CheckoutResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, CheckoutResponse{
			OrderID:   e.SagaID,
			Status:    string(e.Status),
			Step:      e.CurrentStep,
			Errors:    e.Errors(),
			Done:      e.Terminal(),
			TraceID:   e.TraceID,
			UpdatedAt: e.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func customerFromForm(r *http.Request) entity.Customer {
	return entity.Customer{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Phone:   strings.TrimSpace(r.PostFormValue("phone")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
	}
}
