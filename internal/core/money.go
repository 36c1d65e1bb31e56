// Package core prices sale records against a catalog.
//
// This file contains the helpers used to display totals and durations.
package core

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals, rounding half away from zero.
//
// Examples:
//	FormatMoney(decimal.RequireFromString("20"))     -> "20.00"
//	FormatMoney(decimal.RequireFromString("1.005"))  -> "1.01"
//	FormatMoney(decimal.RequireFromString("-3.5"))   -> "-3.50"
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatSeconds renders a duration in seconds with four decimals.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 4, 64)
}

// ParseMoney parses a decimal string produced by FormatMoney or Decimal.String.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
