package entity

import "github.com/shopspring/decimal"

// Customization maps a customization field (e.g. "willow_type") to the chosen value.
type Customization map[string]string

// Clone returns an independent copy. A nil or empty customization clones to an empty map.
func (c Customization) Clone() Customization {
	out := make(Customization, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

type LineItem struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Quantity      int             `json:"quantity"`
	Customization Customization   `json:"customization"`
}

// LineTotal is price times quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
