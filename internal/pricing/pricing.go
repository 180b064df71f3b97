// Package pricing converts price and product labels rendered by the fuel companies
// into values that can be compared across companies.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimals every price is rounded to.
const Precision = 2

// ErrInvalidPrice is returned when a price string does not contain a decimal number.
var ErrInvalidPrice = errors.New("invalid price")

var priceDecorations = strings.NewReplacer(
	"Pris inkl. moms: ", "",
	" kr/kWh", "",
	" kr.", "",
	"\u00a0", " ",
	",", ".",
)

// Normalize parses a price as rendered by a company, e.g. "Pris inkl. moms: 12,34 kr.",
// "10,5 kr/kWh" or "9.99", and rounds it to two decimals.
func Normalize(raw string) (float64, error) {
	d, err := NormalizeDecimal(raw)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// NormalizeDecimal is Normalize returning the rounded decimal.
func NormalizeDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(priceDecorations.Replace(raw))
	for _, suffix := range []string{"kr/kWh", "kr.", "kr"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}

	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	return d.Round(Precision), nil
}

// Format renders a price with exactly two decimals.
func Format(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(Precision)
}

// CleanProductName aligns a rendered product label with catalog display names.
func CleanProductName(raw string) string {
	name := strings.ReplaceAll(raw, "Beskrivelse: ", "")
	name = strings.ReplaceAll(name, "\u00a0", " ")
	name = strings.TrimSpace(name)
	return strings.TrimSuffix(name, ".")
}
