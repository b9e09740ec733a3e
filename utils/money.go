package utils

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a price string cannot be parsed
var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice parses a merchant-entered price such as "15.99", "$15.99" or "1,299.5".
// Negative amounts are rejected.
func ParsePrice(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "%q", input)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "%q", input)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrInvalidPrice, "%q is negative", input)
	}
	return d, nil
}

// NormalizePrice returns the two-decimal form the platform expects, e.g. "15" -> "15.00"
func NormalizePrice(input string) (string, error) {
	d, err := ParsePrice(input)
	if err != nil {
		return "", err
	}
	return d.StringFixed(2), nil
}

// FormatMoney formats an amount as "$12.50". Thousands are separated with commas.
func FormatMoney(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)

	return b.String()
}

// FormatPrice formats a platform price string for display. Unparseable input is returned as is.
func FormatPrice(price string) string {
	d, err := ParsePrice(price)
	if err != nil {
		return price
	}
	return FormatMoney(d)
}
