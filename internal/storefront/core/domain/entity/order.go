package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// OrderRecord is the snapshot persisted once a checkout completes.
// Only the most recent one is kept per visitor.
type OrderRecord struct {
	PaymentID string          `json:"payment_id,omitempty"`
	OrderID   string          `json:"order_id"`
	Signature string          `json:"signature,omitempty"`
	Method    PaymentMethod   `json:"method"`
	Status    OrderStatus     `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Customer  Customer        `json:"customer"`
	Items     []LineItem      `json:"items"`
	Timestamp time.Time       `json:"timestamp"`
}

// PaymentOrder is what the checkout form hands to the online payment flow.
// Amount is expressed in minor units (paise).
type PaymentOrder struct {
	ID       string
	Amount   int64
	Customer Customer
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts rupees to paise, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts paise to rupees.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
