package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId = "x-request-id"

	// CookieSession carries the visitor id between requests.
	CookieSession = "sid"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = HeaderXRequestId
	// ContextKeySessionID is the context key for the visitor session ID.
	ContextKeySessionID contextKey = CookieSession
)
