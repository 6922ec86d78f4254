// Package catalog serves the fixed product list of the store.
package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/entity"
)

var ErrProductNotFound = errors.New("product not found")

var products = []entity.Product{
	{
		ID:          1,
		Name:        "Cricket Secret Professional Elite",
		Description: "Premium cricket bat crafted from Grade A+ English willow with professional customization options. Perfect balance and power for elite players.",
		Price:       decimal.NewFromInt(23450),
		ImageURL:    "bat1.jpg",
		Category:    "professional",
		Weight:      "1.2kg - 1.3kg",
		Grade:       "Grade A+",
		WillowType:  "English Willow",
	},
	{
		ID:          2,
		Name:        "Cricket Secret Duo Core Master",
		Description: "High-performance cricket bat with Duo Core willow technology. Exceptional power and durability for serious cricketers.",
		Price:       decimal.NewFromInt(28999),
		ImageURL:    "bat1.jpg",
		Category:    "professional",
		Weight:      "1.1kg - 1.2kg",
		Grade:       "Grade A+",
		WillowType:  "Duo Core Willow",
	},
	{
		ID:          3,
		Name:        "Cricket Secret Premium Classic",
		Description: "Premium English willow bat with traditional craftsmanship and modern performance. The ultimate choice for champions.",
		Price:       decimal.NewFromInt(35678),
		ImageURL:    "bat1.jpg",
		Category:    "premium",
		Weight:      "1.2kg - 1.3kg",
		Grade:       "Grade A++",
		WillowType:  "Premium English Willow",
	},
	{
		ID:          4,
		Name:        "Cricket Secret Practice Pro",
		Description: "Durable practice cricket bat perfect for training sessions. Built to withstand intensive practice while maintaining performance.",
		Price:       decimal.NewFromInt(12345),
		ImageURL:    "bat1.jpg",
		Category:    "practice",
		Weight:      "1.0kg - 1.1kg",
		Grade:       "Grade B+",
		WillowType:  "Practice Willow",
	},
}

// ListProducts returns the catalog in display order. Callers own the returned slice.
func ListProducts() []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out
}

func Find(id int64) (entity.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
}
