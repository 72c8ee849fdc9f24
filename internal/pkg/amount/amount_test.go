package amount

import (
	"testing"

	"github.com/stretchr/testify/require"

	"route-warmer/internal/pkg/apperrors"
)

func Test_ToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		display  string
		decimals int
		expected string
	}{
		{name: "should shift whole amounts", display: "1", decimals: 6, expected: "1000000"},
		{name: "should shift fractions", display: "1.5", decimals: 6, expected: "1500000"},
		{name: "should drop digits beyond precision", display: "0.0000019", decimals: 6, expected: "1"},
		{name: "should support 18 decimals", display: "0.000000000000000001", decimals: 18, expected: "1"},
		{name: "should pass through with zero decimals", display: "42", decimals: 0, expected: "42"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := require.New(t)
			got, err := ToBaseUnits(test.display, test.decimals)
			c.NoError(err)
			c.Equal(test.expected, got)
		})
	}
}

func Test_ToBaseUnitsRejectsBadInput(t *testing.T) {
	c := require.New(t)
	_, err := ToBaseUnits("abc", 6)
	c.ErrorIs(err, apperrors.ErrInvalidInput)
	_, err = ToBaseUnits("-1", 6)
	c.ErrorIs(err, apperrors.ErrInvalidInput)
}

func Test_FormatDisplay(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		decimals int
		expected string
	}{
		{name: "should print whole units without fraction", base: "2000000", decimals: 6, expected: "2"},
		{name: "should trim trailing zeros", base: "1500000", decimals: 6, expected: "1.5"},
		{name: "should cap fraction digits", base: "1234567891", decimals: 9, expected: "1.234567"},
		{name: "should return garbage untouched", base: "n/a", decimals: 6, expected: "n/a"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, FormatDisplay(test.base, test.decimals))
		})
	}
}

func Test_ParseBaseUnits(t *testing.T) {
	c := require.New(t)
	d, err := ParseBaseUnits("18446744073709551616")
	c.NoError(err)
	c.Equal("18446744073709551616", d.String())

	_, err = ParseBaseUnits("0")
	c.ErrorIs(err, apperrors.ErrInvalidInput)
	_, err = ParseBaseUnits("1.5")
	c.ErrorIs(err, apperrors.ErrInvalidInput)
}

func Test_Fraction(t *testing.T) {
	c := require.New(t)
	d, err := ParseBaseUnits("1000000")
	c.NoError(err)
	c.Equal("1000", Fraction(d, 1, 1000).String())
	c.Equal("10000", Fraction(d, 10, 1000).String())

	small, err := ParseBaseUnits("999")
	c.NoError(err)
	c.Equal("0", Fraction(small, 1, 1000).String())
}
