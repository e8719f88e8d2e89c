package utils

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyNoiseRe = regexp.MustCompile(`[₹$€£,\s]`)

// ParseAmount converts a statement currency string ("9,99,950.00", "₹1,200",
// "$53.20", "-") to a decimal. Empty, dash and unparsable values are zero,
// matching how statements print absent figures.
func ParseAmount(value string) decimal.Decimal {
	cleaned := currencyNoiseRe.ReplaceAllString(strings.TrimSpace(value), "")
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CleanCurrencyValue is ParseAmount for callers that work in float64.
func CleanCurrencyValue(value string) float64 {
	return ParseAmount(value).InexactFloat64()
}

// IsNumericCell reports whether a table cell holds an amount rather than a
// label. Short fragments like "23" are rejected; they are usually page noise.
func IsNumericCell(s string) bool {
	cleaned := currencyNoiseRe.ReplaceAllString(strings.TrimSpace(s), "")
	cleaned = strings.TrimPrefix(cleaned, "-")
	if len(cleaned) <= 2 {
		return false
	}
	if _, err := decimal.NewFromString(cleaned); err != nil {
		return false
	}
	return true
}

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
