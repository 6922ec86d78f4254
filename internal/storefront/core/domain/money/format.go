// Package money formats rupee amounts the way the storefront displays them.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const symbol = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders an amount with Indian digit grouping, e.g. "₹23,450" or "₹1,23,450.5".
// Fraction digits are shown only when present, at most two. The rupee part is grouped
// from its integer value, so no float conversion touches the amount.
func Format(amount decimal.Decimal) string {
	amount = amount.Round(2)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	rupees := amount.Truncate(0)
	out := sign + symbol + printer.Sprint(number.Decimal(rupees.IntPart()))

	// "0.50" -> ".5"; whole amounts get no separator
	if paise := strings.TrimRight(amount.Sub(rupees).StringFixed(2), "0"); paise != "0." {
		out += strings.TrimPrefix(paise, "0")
	}
	return out
}
