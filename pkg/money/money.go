// Package money converts between the integer minor units (cents) stored for
// salary amounts and the decimal major units crossing the API boundary.
// Amounts are kept as integers end to end to avoid floating-point drift.
package money

import (
	"fmt"
	"strconv"
	"strings"

	gomoney "github.com/Rhymond/go-money"
)

// CurrencyCode is the currency all salary amounts are denominated in.
const CurrencyCode = gomoney.USD

// FormatCents renders an amount in minor units as a currency string in major
// units, e.g. 800000 -> "$8,000.00".
func FormatCents(cents int64) string {
	return gomoney.New(cents, CurrencyCode).Display()
}

// ParseMajor converts a decimal major-unit string such as "8000.00" or
// "8000" into minor units. At most two fractional digits are accepted.
func ParseMajor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents64, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	total := units*100 + cents64
	if negative {
		total = -total
	}
	return total, nil
}
