package refdata

import "math"

// Fraction is a fractional inch expressed as a whole number of sixteenths.
// The order form only offers eighth-inch increments, so every legal fraction
// is an exact sixteenth and table lookups stay integer comparisons instead of
// float equality checks.
type Fraction int

const sixteenthsPerInch = 16

// FractionFromDecimal converts a decimal inch fraction (0 <= d < 1) into a
// Fraction. ok is false when d is not an exact sixteenth.
func FractionFromDecimal(d float64) (Fraction, bool) {
	if d < 0 || d >= 1 {
		return 0, false
	}
	scaled := d * sixteenthsPerInch
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-9 {
		return 0, false
	}
	return Fraction(rounded), true
}

// Value returns the fraction as a decimal number of inches.
func (f Fraction) Value() float64 {
	return float64(f) / sixteenthsPerInch
}

// IsZero reports whether the fraction is a whole number (no fractional part).
func (f Fraction) IsZero() bool {
	return f == 0
}

// FractionCode maps one fractional inch value to the short code used inside
// generated part numbers and to the literal decimal text used when rebuilding
// override lookup keys.
type FractionCode struct {
	Sixteenths Fraction
	Code       string
	Text       string
}

// FractionCodes is one product family's fractional-code table.
type FractionCodes []FractionCode

// Code returns the part-number code for f. A missing entry returns the empty
// string, which callers treat as "whole number".
func (c FractionCodes) Code(f Fraction) string {
	for _, fc := range c {
		if fc.Sixteenths == f {
			return fc.Code
		}
	}
	return ""
}

// Text returns the literal decimal text (".25") for f, or the empty string
// when f has no entry.
func (c FractionCodes) Text(f Fraction) string {
	for _, fc := range c {
		if fc.Sixteenths == f {
			return fc.Text
		}
	}
	return ""
}
