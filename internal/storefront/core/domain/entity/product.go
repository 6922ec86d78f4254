package entity

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Weight      string          `json:"weight"`
	Grade       string          `json:"grade"`
	WillowType  string          `json:"willow_type"`
}
