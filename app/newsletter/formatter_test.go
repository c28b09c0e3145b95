package newsletter

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"0", "0,00"},
		{"17.9", "17,90"},
		{"29.90", "29,90"},
		{"1234.5", "1.234,50"},
		{"1234567.89", "1.234.567,89"},
		{"25.415", "25,42"},
		{"25.414", "25,41"},
		{"-17.9", "-17,90"},
		{"-0.5", "-0,50"},
		// Exact beyond float64 integer precision.
		{"9007199254740993.12", "9.007.199.254.740.993,12"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			result := FormatCurrency(decimal.RequireFromString(tt.value))
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
