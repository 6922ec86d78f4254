package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is published once a checkout completes.
type OrderPlacedEvent struct {
	OrderID   string          `json:"order_id"`
	PaymentID string          `json:"payment_id,omitempty"`
	Method    PaymentMethod   `json:"method"`
	Status    OrderStatus     `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Customer  Customer        `json:"customer"`
	Items     []LineItem      `json:"items"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewOrderPlacedEvent(o OrderRecord) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:   o.OrderID,
		PaymentID: o.PaymentID,
		Method:    o.Method,
		Status:    o.Status,
		Amount:    o.Amount,
		Customer:  o.Customer,
		Items:     o.Items,
		Timestamp: o.Timestamp,
	}
}
