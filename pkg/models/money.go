package models

import "github.com/shopspring/decimal"

// RoundMoney rounds a monetary value to 2 decimal places using
// round-half-away-from-zero, matching how every monetary field in API
// responses is formatted.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatDate is the wire format for all date fields.
const FormatDate = "2006-01-02"
