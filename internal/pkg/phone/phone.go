// Package phone normalizes customer phone numbers for storage and matching.
package phone

import "strings"

// MatchDigits is the number of trailing digits compared when matching numbers.
const MatchDigits = 10

// Digits strips everything but ASCII digits.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns an international number without '+' or formatting.
// A bare local number (MatchDigits long, optionally behind a trunk 0) gets
// countryCode prepended. Anything else is returned as digits only.
func Normalize(raw, countryCode string) string {
	digits := Digits(raw)
	if len(digits) == MatchDigits+1 && digits[0] == '0' {
		digits = digits[1:]
	}
	if len(digits) == MatchDigits && countryCode != "" && !strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return Digits(countryCode) + digits
	}
	return digits
}

// Suffix returns the trailing MatchDigits digits of raw.
func Suffix(raw string) string {
	digits := Digits(raw)
	if len(digits) <= MatchDigits {
		return digits
	}
	return digits[len(digits)-MatchDigits:]
}

// Valid reports whether raw carries between 10 and 15 digits.
func Valid(raw string) bool {
	n := len(Digits(raw))
	return n >= 10 && n <= 15
}
