// Package money converts processor amounts, which are integers in the
// currency's smallest unit, into decimal major units for display and for
// systems that expect dollars rather than cents.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var zeroDecimal = map[string]bool{
	"jpy": true,
	"krw": true,
	"vnd": true,
	"clp": true,
	"pyg": true,
	"idr": true,
}

var symbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"jpy": "¥",
	"cad": "C$",
	"aud": "A$",
}

// Exponent returns the number of minor-unit decimal places for currency.
func Exponent(currency string) int32 {
	if zeroDecimal[strings.ToLower(currency)] {
		return 0
	}
	return 2
}

// Major converts an amount in minor units to major units, e.g. 39900 usd -> 399.
func Major(amount int64, currency string) decimal.Decimal {
	return decimal.New(amount, -Exponent(currency))
}

// Format renders amount with its currency symbol, e.g. "$1,914.00".
func Format(amount int64, currency string) string {
	exp := Exponent(currency)
	d := Major(amount, currency)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(exp)
	whole, frac, _ := strings.Cut(fixed, ".")
	out := sign + symbol(currency) + groupThousands(whole)
	if frac != "" {
		out += "." + frac
	}
	return out
}

func symbol(currency string) string {
	if s, ok := symbols[strings.ToLower(currency)]; ok {
		return s
	}
	return strings.ToUpper(currency) + " "
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
