package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
)

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// ToMinorUnits converts a major-unit price into integer minor units.
// Negative values and more than two fractional digits are rejected.
func ToMinorUnits(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, fmt.Errorf("%w: price must not be negative", domainErrors.ErrValidation)
	}
	minor := price.Shift(2)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: price %s has more than two decimal places", domainErrors.ErrValidation, price)
	}
	if minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: price %s is too large", domainErrors.ErrValidation, price)
	}
	return minor.IntPart(), nil
}

// FromMinorUnits renders minor units as a two-place decimal.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// ValidateEmail checks for a single '@' with non-empty local and domain parts.
func ValidateEmail(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return !strings.Contains(domain, "@")
}
