package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
)

type CartResponse struct {
	Items    []entity.LineItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Total    decimal.Decimal   `json:"total"`
}

// CheckoutResponse is the current state of one checkout saga.
type CheckoutResponse struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Step      string    `json:"step,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Done      bool      `json:"done"`
	TraceID   string    `json:"trace_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
