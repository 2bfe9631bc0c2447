// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and formatting them for display.
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for every amount.
const AmountPlaces = 2

// plainAmount is unsigned decimal text: at most 15 integer digits and 10
// fractional ones. Exponents are not accepted.
var plainAmount = regexp.MustCompile(`^[0-9]{1,15}(\.[0-9]{1,10})?$`)

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding to two decimal places. Zero is accepted, negative values,
// signs, exponents, oversized values and non-numeric input are not.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (half-up)
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
//	ParseAmount("1e3")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !plainAmount.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, truncate(s, 32))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Round(AmountPlaces), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// FormatAmount renders an amount with exactly two decimals ("12.50").
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// SignedAmount renders the amount with a leading "+" for income and "-" for
// expense, the way the history list shows it.
func (t Transaction) SignedAmount() string {
	if t.IsIncome() {
		return "+" + FormatAmount(t.Amount)
	}
	return "-" + FormatAmount(t.Amount)
}
