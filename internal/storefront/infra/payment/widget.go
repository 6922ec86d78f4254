// Package payment simulates the hosted payment widget. A session is opened by
// checkout, rendered to the visitor as a widget page, and resolved exactly once
// when the visitor pays, the payment fails or the widget is closed.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/ports"
)

var (
	ErrSessionNotFound = errors.New("payment session not found")
	ErrSessionNotOwned = errors.New("payment session belongs to another visitor")
	ErrSessionExists   = errors.New("payment session already open")
	ErrUnknownOutcome  = errors.New("unknown payment outcome")
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeDismiss Outcome = "dismiss"
)

// Result is what the visitor did in the widget. Description is only used for failures.
type Result struct {
	Outcome     Outcome
	Description string
}

type session struct {
	cfg       ports.PaymentConfig
	callbacks ports.PaymentCallbacks
}

var _ ports.PaymentGateway = (*Widget)(nil)

// Widget keeps open sessions in memory. No timeout is enforced; an abandoned
// session stays until it is resolved.
type Widget struct {
	secret []byte

	mu       sync.Mutex
	sessions map[string]*session
}

// NewWidget returns a widget that signs successful payments with secret.
func NewWidget(secret string) *Widget {
	return &Widget{
		secret:   []byte(secret),
		sessions: make(map[string]*session),
	}
}

func (w *Widget) Open(_ context.Context, cfg ports.PaymentConfig, cb ports.PaymentCallbacks) error {
	if cfg.OrderID == "" {
		return errors.New("payment: order id is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.sessions[cfg.OrderID]; ok {
		return fmt.Errorf("%w: %s", ErrSessionExists, cfg.OrderID)
	}
	w.sessions[cfg.OrderID] = &session{cfg: cfg, callbacks: cb}
	return nil
}

// Config returns what an open session was configured with.
func (w *Widget) Config(orderID string) (ports.PaymentConfig, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[orderID]
	if !ok {
		return ports.PaymentConfig{}, fmt.Errorf("%w: %s", ErrSessionNotFound, orderID)
	}
	return s.cfg, nil
}

// Resolve closes the session and fires the matching callback with ui, the presenter of
// the request that resolved it. A session can be resolved only once, and only by the
// visitor it was opened for.
func (w *Widget) Resolve(ctx context.Context, ui ports.Presenter, visitor, orderID string, res Result) error {
	switch res.Outcome {
	case OutcomeSuccess, OutcomeFailure, OutcomeDismiss:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, res.Outcome)
	}

	w.mu.Lock()
	s, ok := w.sessions[orderID]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, orderID)
	}
	if s.cfg.Owner != visitor {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotOwned, orderID)
	}
	delete(w.sessions, orderID)
	w.mu.Unlock()

	switch res.Outcome {
	case OutcomeSuccess:
		paymentID := newPaymentID()
		s.callbacks.OnSuccess(ctx, ui, ports.PaymentSuccess{
			PaymentID: paymentID,
			OrderID:   orderID,
			Signature: w.sign(orderID, paymentID),
		})
	case OutcomeFailure:
		desc := res.Description
		if desc == "" {
			desc = "Payment could not be completed"
		}
		s.callbacks.OnFailure(ctx, ui, ports.PaymentFailure{Description: desc})
	case OutcomeDismiss:
		s.callbacks.OnDismiss(ctx, ui)
	}
	return nil
}

// Pending reports the number of open sessions.
func (w *Widget) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}

// sign produces the hex HMAC-SHA256 of "order_id|payment_id".
func (w *Widget) sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, w.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newPaymentID() string {
	return "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}
