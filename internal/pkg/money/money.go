// Package money renders decimal amounts the way the API returns them.
package money

import "github.com/shopspring/decimal"

// Places is the number of decimal places every amount is rendered with
const Places = 2

// Format renders d with exactly Places decimals, e.g. "45.50"
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// FormatNull renders d like Format, or nil when it is unset
func FormatNull(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := Format(d.Decimal)
	return &s
}
