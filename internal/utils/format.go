package utils

import (
	"fmt"
	"os"
	"strings"
)

// Thousands renders v with the given number of decimals and comma
// thousands separators, e.g. 1234567.891 -> "1,234,567.89".
func Thousands(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// Area formats hectare values: two decimals, thousands separators.
func Area(v float64) string {
	return Thousands(v, 2)
}

// Percent formats a percentage with one decimal place.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// CurrencySymbol is read from the environment so deployments can localize
// revenue figures. Defaults to the rupee sign.
func CurrencySymbol() string {
	if s := os.Getenv("CURRENCY_SYMBOL"); s != "" {
		return s
	}
	return "₹"
}

// Currency formats a monetary value with the configured symbol.
func Currency(v float64) string {
	return CurrencySymbol() + Thousands(v, 2)
}
