// Package amount converts token amounts between display units and chain base units.
package amount

import (
	"fmt"
	"strings"

	"route-warmer/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// DisplayPrecision is the number of fraction digits kept when formatting for display.
const DisplayPrecision = 6

// ParseBaseUnits parses an amount in the chain's smallest unit. It must be a positive integer.
func ParseBaseUnits(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrInvalidInput, raw)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: amount %q must be an integer in base units", apperrors.ErrInvalidInput, raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount %q must be positive", apperrors.ErrInvalidInput, raw)
	}
	return d, nil
}

// ToBaseUnits converts a display amount such as "1.5" into base units using decimals.
// Fraction digits beyond the token's precision are dropped.
func ToBaseUnits(display string, decimals int) (string, error) {
	if decimals < 0 {
		return "", fmt.Errorf("%w: negative decimals %d", apperrors.ErrInvalidInput, decimals)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(display))
	if err != nil {
		return "", fmt.Errorf("%w: amount %q is not a number", apperrors.ErrInvalidInput, display)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("%w: amount %q must not be negative", apperrors.ErrInvalidInput, display)
	}
	return d.Shift(int32(decimals)).Truncate(0).String(), nil
}

// FormatDisplay renders a base-unit amount in display units, keeping at most
// DisplayPrecision fraction digits and no trailing zeros. Unparseable input is returned as is.
func FormatDisplay(base string, decimals int) string {
	if decimals <= 0 {
		return base
	}
	d, err := decimal.NewFromString(base)
	if err != nil {
		return base
	}
	return d.Shift(-int32(decimals)).Truncate(DisplayPrecision).String()
}

// Fraction returns floor(base * numerator / denominator).
func Fraction(base decimal.Decimal, numerator, denominator int64) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(numerator)).Div(decimal.NewFromInt(denominator)).Floor()
}
