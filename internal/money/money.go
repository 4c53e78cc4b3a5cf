// Package money parses and formats fixed-precision amounts. Amounts travel as
// strings with at most two fractional digits and are stored as NUMERIC(12,2);
// arithmetic happens on integer cents so money never touches floating point.
package money

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

const maxCents = 9_999_999_999_99 // NUMERIC(12,2) ceiling

// ParseCents parses a decimal string like "10", "10.5" or "10.50" into cents.
// Negative and zero amounts are rejected, as are more than two fractional digits.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" || len(frac) > 2 {
		return 0, ErrInvalidAmount
	}

	var cents int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, ErrInvalidAmount
		}
		cents = cents*10 + int64(c-'0')
		if cents > maxCents {
			return 0, ErrInvalidAmount
		}
	}
	cents *= 100

	mult := int64(10)
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, ErrInvalidAmount
		}
		cents += int64(c-'0') * mult
		mult /= 10
	}

	if cents <= 0 || cents > maxCents {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatCents renders cents in canonical "#.##" form.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Normalize returns the canonical two-decimal form of an amount string, so
// "10", "10.5" and "10.50" all map to the same value.
func Normalize(s string) (string, error) {
	cents, err := ParseCents(s)
	if err != nil {
		return "", err
	}
	return FormatCents(cents), nil
}
