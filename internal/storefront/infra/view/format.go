package view

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jcmexdev/ecommerce-storefront/internal/storefront/core/domain/money"
)

const placeholderBase = "https://via.placeholder.com/200x150/f8f9fa/6c757d"

// FormatPrice renders a rupee amount, e.g. "₹23,450".
func FormatPrice(amount decimal.Decimal) string {
	return money.Format(amount)
}

// FormatLabel turns a customization key or value into display text:
// "willow_type" becomes "Willow Type". Letters after the first of each word keep their case.
func FormatLabel(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(s, "_", " "))
}

// PlaceholderImage is shown when a product image fails to load.
func PlaceholderImage(name string) string {
	return placeholderBase + "?text=" + url.QueryEscape(name)
}
