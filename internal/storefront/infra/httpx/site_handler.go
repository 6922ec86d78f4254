package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.session(r), view.PageContact, view.Page{
		Title: "Contact",
		View:  entity.ViewContact,
	})
}

// SubmitContact acknowledges the message. Nothing is stored or sent.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	ui := newPagePresenter(entity.ViewContact, h.banners(s))
	ui.Notify(r.Context(), msgContactThanks, entity.NotificationSuccess)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func (h *Handler) DismissFlash(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	if err := h.banners(s).Dismiss(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, returnTo(r, "/products"), http.StatusSeeOther)
}
