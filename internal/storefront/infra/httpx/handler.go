package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator"
	"github.com/jcmexdev/ecommerce-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/payment"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/store"
	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/view"
)

const (
	msgContactThanks = "Thank you for your message! We will get back to you soon."
	msgOrderFailed   = "We could not place your order. Please try again."
)

// Handler serves the storefront pages. Every mutation is a POST answered with a
// redirect, or with the delayed redirect page when checkout asked for one.
type Handler struct {
	kv        ports.KV
	checkout  *coordinator.Checkout
	widget    *payment.Widget
	renderer  *view.Renderer
	bannerTTL time.Duration
	history   sagalog.Reader
	now       func() time.Time
}

// NewHandler wires the storefront handlers. bannerTTL <= 0 falls back to
// view.DefaultBannerTTL.
func NewHandler(
	kv ports.KV,
	checkout *coordinator.Checkout,
	widget *payment.Widget,
	renderer *view.Renderer,
	bannerTTL time.Duration,
) *Handler {
	return &Handler{
		kv:        kv,
		checkout:  checkout,
		widget:    widget,
		renderer:  renderer,
		bannerTTL: bannerTTL,
		now:       time.Now,
	}
}

// WithCheckoutLog enables the checkout history endpoint.
func (h *Handler) WithCheckoutLog(r sagalog.Reader) *Handler {
	h.history = r
	return h
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) session(r *http.Request) *store.Session {
	return store.NewSession(h.kv, middlewares.SessionID(r.Context()))
}

func (h *Handler) banners(s *store.Session) *view.Banners {
	return view.NewBanners(s, h.bannerTTL, h.now)
}

// presenter builds the presenter for a mutation. The current view is the page the
// visitor submitted the form from.
func (h *Handler) presenter(r *http.Request, s *store.Session) *pagePresenter {
	return newPagePresenter(viewFromPath(returnTo(r, r.URL.Path)), h.banners(s))
}

// render writes a full page with the cart indicator and the active banners filled in.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, s *store.Session, page string, data view.Page) {
	ctx := r.Context()

	items, err := s.LoadCart(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	banners, err := h.banners(s).Active(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data.CartCount = len(items)
	data.Banners = banners
	if data.Path == "" {
		data.Path = r.URL.RequestURI()
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// finish answers a mutation. A navigation requested by checkout wins; a cart rendered
// on request of a fragment form is returned in place; otherwise the visitor goes back
// to where the form was submitted from.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, s *store.Session, ui *pagePresenter, fallback string) {
	if nav := ui.navigation(); nav != nil {
		if nav.Delay <= 0 {
			http.Redirect(w, r, nav.URL(), http.StatusSeeOther)
			return
		}
		h.render(w, r, s, view.PageRedirect, view.Page{
			Title:         "Redirecting",
			View:          ui.CurrentView(),
			Path:          nav.URL(),
			RedirectURL:   nav.URL(),
			RedirectAfter: int(math.Ceil(nav.Delay.Seconds())),
		})
		return
	}

	if r.PostFormValue("fragment") == "cart" {
		if items, ok := ui.renderedCart(); ok {
			h.writeCartFragment(w, r, ui, items)
			return
		}
	}

	http.Redirect(w, r, returnTo(r, fallback), http.StatusSeeOther)
}

func (h *Handler) writeCartFragment(w http.ResponseWriter, r *http.Request, ui *pagePresenter, items []entity.LineItem) {
	html, err := h.renderer.CartPage(items)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	count := len(items)
	if n, ok := ui.cartCount(); ok {
		count = n
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cart-Count", strconv.Itoa(count))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "")
}

// returnTo reads the return_to form field. Only local paths are honoured.
func returnTo(r *http.Request, fallback string) string {
	to := r.PostFormValue("return_to")
	if to == "" || !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.Contains(to, `\`) {
		return fallback
	}
	return to
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
