package pricing

import (
	"fmt"
	"math"

	"github.com/natfilters/natpricing/internal/refdata"
)

// OptionStandard is the default finish for sleeves and frames.
const OptionStandard = "Standard"

// Frames always ship one per carton.
const frameCartonQty = 1

// SleeveInput is one sleeve or wire-frame quote request. The two sub-products
// share this entry point; the product's prefix discriminates them.
type SleeveInput struct {
	Product        string
	Option         string
	WidthWhole     int
	WidthFraction  refdata.Fraction
	LengthWhole    int
	LengthFraction refdata.Fraction
	WithTrace      bool
}

// CalculateSleeves derives a sleeve or wire-frame part number and price. Pure
// function: it reads t but never mutates it.
//
// Validation here is stricter than the pads calculator: any failed check
// stops before the part number is generated, with no tolerance band.
func CalculateSleeves(in SleeveInput, t *refdata.SleeveTables) Result {
	res := Result{PartNumber: "N/A"}
	if in.WithTrace {
		res.Trace = &Trace{}
	}

	product, ok := t.Products[in.Product]
	if !ok {
		res.notice("Invalid Product")
		return res
	}

	if !product.AllowsOption(in.Option) {
		res.notice("Option not available for this product")
		return res
	}

	width := float64(in.WidthWhole) + in.WidthFraction.Value()
	length := float64(in.LengthWhole) + in.LengthFraction.Value()

	failed := false
	if width < product.MinWidth || width > product.MaxWidth {
		res.notice("width is out of range")
		failed = true
	}
	if length < product.MinLength || length > product.MaxLength {
		res.notice("length is out of range")
		failed = true
	}
	if failed {
		return res
	}

	isFrame := product.Prefix == t.FramePrefix

	res.PartNumber = fmt.Sprintf("%s%02d%s%02d%s",
		product.Prefix,
		in.WidthWhole, t.Fractions.Code(in.WidthFraction),
		in.LengthWhole, t.Fractions.Code(in.LengthFraction))
	if in.Option != OptionStandard {
		res.PartNumber += "AT"
	}

	if isFrame {
		wires, ok := crossWireCount(t.CrossWires, max(in.WidthWhole, in.LengthWhole))
		if !ok {
			res.notice("No cross-wire rule for these dimensions")
			return res
		}
		res.PartNumber += fmt.Sprintf("-%dCW", wires)
		res.Trace.step(fmt.Sprintf("frame, %d cross wires", wires))
	}

	// Carton quantity resolves before price so a pricing failure still
	// leaves the packing info on the result for diagnostics.
	if isFrame {
		res.CartonQty = frameCartonQty
	} else {
		qty, ok := sleeveCartonQty(t.SleeveCartons, in.LengthWhole)
		if !ok {
			res.notice("No carton quantity found for this length")
			return res
		}
		res.CartonQty = qty
	}

	// Both sub-products price on the face value rounded to the nearest
	// whole square inch, matching the workbook.
	face := math.Round(width * length)
	res.Trace.step(fmt.Sprintf("face value %g", face))

	var price float64
	if isFrame {
		price, ok = framePrice(t.FrameBands, width, face)
		if !ok {
			res.notice("Dimensions out of range")
			return res
		}
	} else {
		price, ok = sleevePrice(t.SleeveTiers, face, in.Option != OptionStandard)
		if !ok {
			res.notice("Dimensions out of range")
			return res
		}
	}

	res.Price = round2(price)
	res.CartonPrice = round2(res.Price * float64(res.CartonQty))
	return res
}

// crossWireCount looks up the wire count by the larger whole dimension.
func crossWireCount(rules []refdata.CrossWireRule, maxDim int) (int, bool) {
	for _, r := range rules {
		if maxDim <= r.MaxDimension {
			return r.WireCount, true
		}
	}
	return 0, false
}

// framePrice classifies the width into one of the three fixed bands, then
// takes the first tier in that band whose bound covers the face value.
func framePrice(bands []refdata.FrameBand, width, face float64) (float64, bool) {
	for i, band := range bands {
		low := width > band.WidthMin
		if i == 0 {
			low = width >= band.WidthMin
		}
		if !low || width > band.WidthMax {
			continue
		}
		for _, tier := range band.Tiers {
			if tier.AreaMax >= face {
				return tier.Price, true
			}
		}
		return 0, false
	}
	return 0, false
}

func sleevePrice(tiers []refdata.SleeveTier, face float64, antimicrobial bool) (float64, bool) {
	for _, tier := range tiers {
		if face < tier.AreaFrom || face > tier.AreaTo {
			continue
		}
		if antimicrobial {
			return tier.Antimicrobial, true
		}
		return tier.Standard, true
	}
	return 0, false
}

func sleeveCartonQty(tiers []refdata.SleeveCartonTier, wholeLength int) (int, bool) {
	for _, tier := range tiers {
		if tier.MaxLength >= wholeLength {
			return tier.Qty, true
		}
	}
	return 0, false
}
