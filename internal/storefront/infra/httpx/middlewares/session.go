package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/constants"
)

const sessionMaxAge = 30 * 24 * 60 * 60

// Session makes sure every visitor carries a session cookie. Its value scopes all
// stored state and is placed in the context under constants.ContextKeySessionID.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(constants.CookieSession); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     constants.CookieSession,
				Value:    sid,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", sid))

		ctx := context.WithValue(r.Context(), constants.ContextKeySessionID, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the visitor id placed in ctx by Session.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(constants.ContextKeySessionID).(string)
	return sid
}
