package ports

import (
	"context"
)

// PaymentConfig is what the external payment widget is opened with.
type PaymentConfig struct {
	Key          string
	Amount       int64 // minor units
	Currency     string
	OrderID      string
	MerchantName string
	Description  string
	Customer     PaymentPrefill
	// Owner identifies the visitor the session was opened for.
	Owner string
}

type PaymentPrefill struct {
	Name    string
	Email   string
	Contact string
}

type PaymentSuccess struct {
	PaymentID string
	OrderID   string
	Signature string
}

type PaymentFailure struct {
	Description string
}

// PaymentCallbacks are invoked by the gateway, exactly one of them per session.
// The presenter passed in is the one current when the outcome arrives.
type PaymentCallbacks struct {
	OnSuccess func(ctx context.Context, ui Presenter, res PaymentSuccess)
	OnFailure func(ctx context.Context, ui Presenter, res PaymentFailure)
	OnDismiss func(ctx context.Context, ui Presenter)
}

type PaymentGateway interface {
	Open(ctx context.Context, cfg PaymentConfig, cb PaymentCallbacks) error
}
