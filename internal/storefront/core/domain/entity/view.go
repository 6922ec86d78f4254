package entity

import (
	"net/url"
	"time"
)

type View string

const (
	ViewProducts          View = "products"
	ViewProduct           View = "product"
	ViewCart              View = "cart"
	ViewCheckout          View = "checkout"
	ViewOrderConfirmation View = "order_confirmation"
	ViewContact           View = "contact"
)

// Navigation is a plain URL transition to a named view, optionally deferred.
type Navigation struct {
	View  View
	Query url.Values
	Delay time.Duration
}

func (n Navigation) URL() string {
	u := url.URL{Path: "/" + string(n.View)}
	if len(n.Query) > 0 {
		u.RawQuery = n.Query.Encode()
	}
	return u.String()
}
