package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"0", "0", true},
		{"1.005", "1.01", true}, // half-up rounding
		{"12.344", "12.34", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"   ", "", false},
		{"999999999999999.99", "999999999999999.99", true},
		{"1e3", "", false},
		{"1E3", "", false},
		{"1e9999999", "", false},
		{"1.5e2", "", false},
		{strings.Repeat("9", 16), "", false},
		{"1." + strings.Repeat("1", 11), "", false},
		{strings.Repeat("9", 100000), "", false},
		{".5", "", false},
		{"0x10", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if assert.NoError(t, err, tc.in) {
				assert.True(t, got.Equal(decimal.RequireFromString(tc.out)), "%q: got %s want %s", tc.in, got, tc.out)
			}
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12.50", FormatAmount(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "-3.00", FormatAmount(decimal.NewFromInt(-3)))
}

func TestSignedAmount(t *testing.T) {
	in := Transaction{Type: Income, Amount: decimal.NewFromInt(500)}
	out := Transaction{Type: Expense, Amount: decimal.RequireFromString("99.9")}
	assert.Equal(t, "+500.00", in.SignedAmount())
	assert.Equal(t, "-99.90", out.SignedAmount())
}
