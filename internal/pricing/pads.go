package pricing

import (
	"fmt"
	"strconv"

	"github.com/natfilters/natpricing/internal/refdata"
)

// PadInput is one media-pad quote request.
type PadInput struct {
	Product        string
	Option         string
	WidthWhole     int
	WidthFraction  refdata.Fraction
	LengthWhole    int
	LengthFraction refdata.Fraction
	WithTrace      bool
}

// Total lengths below this use the per-product under-26 carton table instead
// of the universal length tiers.
const padShortLength = 26.0

// padTolerance is the allowance applied on the second validation pass only.
const padTolerance = 0.25

// CalculatePads derives a media-pad part number and price. Pure function: it
// reads t but never mutates it.
//
// Only the antimicrobial-eligibility check is a hard stop. Dimension problems
// are soft: the part number is always assembled and pricing runs as far as it
// can, because the identifier does not depend on price validity and a sales
// rep mid-quote still wants to see it.
func CalculatePads(in PadInput, t *refdata.PadTables) Result {
	res := Result{PartNumber: "N/A"}
	if in.WithTrace {
		res.Trace = &Trace{}
	}

	product, ok := t.Products[in.Product]
	if !ok {
		res.notice("Invalid Product")
		return res
	}

	antimicrobial := in.Option == AddOnAntimicrobial
	if antimicrobial && !t.ATPrefixes[product.Prefix] {
		// Hard error: unlike dimension warnings this halts everything,
		// including part-number assembly.
		res.notice("Antimicrobial option is not available for this product")
		return res
	}

	width := float64(in.WidthWhole) + in.WidthFraction.Value()
	length := float64(in.LengthWhole) + in.LengthFraction.Value()

	maxWidth := product.MaxWidth
	if capped, ok := t.WidthCaps[product.Prefix]; ok {
		maxWidth = capped
	}
	res.Trace.step(fmt.Sprintf("prefix %s, max width %g", product.Prefix, maxWidth))

	validatePadDimension(&res, "width", width, product.MinWidth, maxWidth)
	validatePadDimension(&res, "length", length, product.MinLength, product.MaxLength)

	res.PartNumber = fmt.Sprintf("%s%02d%s%02d%s",
		product.Prefix,
		in.WidthWhole, t.Fractions.Code(in.WidthFraction),
		in.LengthWhole, t.Fractions.Code(in.LengthFraction))
	if antimicrobial {
		res.PartNumber += "AT"
	}

	// Whole-number standard cuts may map to a known stock part. The message
	// replaces the price, but the standard carton quantity is still useful
	// packing info, so it stays populated.
	if in.WidthFraction.IsZero() && in.LengthFraction.IsZero() && !antimicrobial {
		key := product.Prefix + strconv.Itoa(in.WidthWhole) + strconv.Itoa(in.LengthWhole)
		if msg, ok := t.Exceptions[key]; ok {
			res.Trace.step("standard part exception hit on " + key)
			res.notice(msg)
			res.CartonQty = product.StandardCartonQty
			return res
		}
	}

	res.CartonQty = padCartonQty(&res, t, product.Prefix, length, in.LengthWhole)

	face := width * length
	res.Trace.step(fmt.Sprintf("face value %.2f", face))
	if price, ok := padTierPrice(&res, t.PriceTables[product.Prefix], face, antimicrobial); ok {
		res.Price = round2(price)
		res.CartonPrice = round2(res.Price * float64(res.CartonQty))
	}

	return res
}

// validatePadDimension runs the two-tier check: strict bounds first, then the
// same bounds widened by the tolerance. Inside tolerance the failure is
// downgraded to a softer wording; either way computation continues.
func validatePadDimension(res *Result, name string, v, min, max float64) {
	if v >= min && v <= max {
		return
	}
	if v >= min-padTolerance && v <= max+padTolerance {
		res.notice(fmt.Sprintf("%s is outside the standard range but within tolerance", name))
		return
	}
	res.notice(fmt.Sprintf("%s is out of range", name))
}

// padCartonQty resolves the carton quantity. A missing row is an error note
// but does not disturb any price computed elsewhere.
func padCartonQty(res *Result, t *refdata.PadTables, prefix string, length float64, wholeLength int) int {
	if length < padShortLength {
		if qty, ok := t.CartonUnder26[prefix]; ok {
			return qty
		}
		res.notice("No carton quantity found for this product")
		return 0
	}
	for _, tier := range t.CartonLengthTiers {
		if wholeLength <= tier.MaxLength {
			return tier.Qty
		}
	}
	res.notice("No carton quantity found for this length")
	return 0
}

// padTierPrice finds the face-value tier and reads the requested option's
// cell. A blank, non-numeric, or zero cell means the option has no published
// price in that tier.
func padTierPrice(res *Result, tiers []refdata.PadPriceTier, face float64, antimicrobial bool) (float64, bool) {
	for _, tier := range tiers {
		if face < tier.AreaFrom || face > tier.AreaTo {
			continue
		}
		cell := tier.Standard
		if antimicrobial {
			cell = tier.Antimicrobial
		}
		price, err := strconv.ParseFloat(cell, 64)
		if err != nil || price == 0 {
			res.notice("Price not available for this configuration")
			return 0, false
		}
		return price, true
	}
	res.notice("Dimensions out of range")
	return 0, false
}
