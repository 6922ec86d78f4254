package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/infra/httpx/middlewares"
)

// NewRouter mounts the storefront. metrics may be nil.
func NewRouter(handler *Handler, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Session)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/products", http.StatusFound)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Get("/{id}", handler.GetProduct)
			r.Post("/{id}/customization", handler.Customize)
			r.Post("/{id}/cart", handler.AddToCart)
		})

		r.Get("/cart", handler.GetCart)
		r.Post("/cart/items/{id}/quantity", handler.SetQuantity)
		r.Post("/cart/items/{id}/remove", handler.RemoveItem)

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", handler.GetCheckout)
			r.Post("/begin", handler.BeginCheckout)
			r.Post("/cod", handler.PayOnDelivery)
			r.Post("/online", handler.PayOnline)
			r.Get("/payment/{orderID}", handler.GetPayment)
			r.Post("/payment/{orderID}/{outcome}", handler.ResolvePayment)
		})

		r.Get("/order_confirmation", handler.GetConfirmation)
		r.Get("/contact", handler.GetContact)
		r.Post("/contact", handler.SubmitContact)
		r.Post("/flash/{id}/dismiss", handler.DismissFlash)

		r.Route("/api", func(r chi.Router) {
			r.Get("/cart", handler.GetCartJSON)
			r.Get("/last-order", handler.GetLastOrderJSON)
			r.Get("/checkouts", handler.GetCheckoutsJSON)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
