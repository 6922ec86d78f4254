package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/constants"
)

// AttachTracingMetadata copies chi's request id into the context under the key the
// logger reads and echoes it back to the client. Once routed, the server span is named
// after the matched route pattern.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		ctx := r.Context()

		if requestID := middleware.GetReqID(ctx); requestID != "" {
			w.Header().Set(middleware.RequestIDHeader, requestID)
			span.SetAttributes(attribute.String("request.id", requestID))
			ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))

		if rctx := chi.RouteContext(ctx); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
	})
}
