package pricing

import (
	"fmt"
	"strconv"

	"github.com/natfilters/natpricing/internal/refdata"
)

// PleatInput is one pleat quote request.
type PleatInput struct {
	ProductFamily  string
	WidthWhole     int
	WidthFraction  refdata.Fraction
	LengthWhole    int
	LengthFraction refdata.Fraction
	Depth          int
	IsExact        bool

	// WithTrace attaches step-by-step diagnostics to the result.
	WithTrace bool
}

// ManualQuotePartNumber is the terminal identifier for cuts too large for
// list pricing. It is not an error: it tells the sales rep to route the quote
// to customer service.
const ManualQuotePartNumber = "Contact Customer Service"

const pleatCartonQty = 12

// Secondary-code values classify how far a cut exceeds the standard size
// envelope for its depth.
const (
	cutStandard    = 1 // within standard bounds on both dimensions
	cutOversize    = 2 // standard one way, within the oversize bound the other
	cutExtended    = 3 // standard one way, beyond the oversize bound the other
	cutManualQuote = 4 // beyond bounds both ways, or otherwise unclassified
)

// Families that pull their price column code from the depth-2 classification
// or carry a fixed column suffix. These mirror rows of the legacy workbook's
// family rule table and are keyed by part-number prefix.
const (
	highCapacityMerv8Prefix  = "11255"
	highCapacityMerv11Prefix = "21104"
)

var depth2CodedPrefixes = map[string]bool{
	"11206": true,
	"11208": true,
}

// CalculatePleats derives a pleat part number and price. Pure function: it
// reads t but never mutates it.
func CalculatePleats(in PleatInput, t *refdata.PleatTables) Result {
	res := Result{}
	if in.WithTrace {
		res.Trace = &Trace{}
	}

	prefix, ok := t.Products[in.ProductFamily]
	if !ok {
		res.PartNumber = "Invalid Product Family"
		res.notice("Invalid Product Family")
		return res
	}
	res.Trace.step(fmt.Sprintf("family %q -> prefix %s", in.ProductFamily, prefix))

	th, ok := t.ThresholdFor(in.Depth)
	if !ok {
		res.PartNumber = "N/A"
		res.notice(fmt.Sprintf("No size thresholds for depth %d", in.Depth))
		return res
	}

	width := float64(in.WidthWhole) + in.WidthFraction.Value()
	length := float64(in.LengthWhole) + in.LengthFraction.Value()
	widthCode := t.Fractions.Code(in.WidthFraction)
	lengthCode := t.Fractions.Code(in.LengthFraction)

	secondary := classifyPleatCut(width, length, th)
	res.Trace.step(fmt.Sprintf("secondary code %d (depth %d thresholds)", secondary, in.Depth))

	// Depth 4 classifies against its own thresholds for the part number, but
	// the legacy workbook priced 4" cuts off the depth-2 grid. The pricing
	// code below must never see the depth-4 classification.
	priceCode := secondary
	depth2Code := secondary
	if in.Depth != 2 {
		if th2, ok := t.ThresholdFor(2); ok {
			depth2Code = classifyPleatCut(width, length, th2)
		}
	}
	if in.Depth == 4 {
		priceCode = depth2Code
		res.Trace.step(fmt.Sprintf("depth 4: pricing reclassified as %d via depth-2 thresholds", priceCode))
	}

	primary := pleatPrimaryCode(secondary, in.IsExact, in.WidthFraction, in.LengthFraction)
	res.Trace.step("primary code " + primary)

	if primary == "CQ" {
		// Terminal: these dimensions always require a human quote.
		res.PartNumber = ManualQuotePartNumber
		return res
	}

	res.PartNumber = fmt.Sprintf("%s%s0%d%02d%s%02d%s",
		prefix, primary, in.Depth, in.WidthWhole, widthCode, in.LengthWhole, lengthCode)

	if res.PartNumber[0] != '1' && res.PartNumber[0] != '2' {
		res.notice("Invalid Part Number")
		return res
	}

	// Overrides supersede tiered pricing. The key rebuilds the literal
	// dimension text from the fraction-code table rather than formatting the
	// float, so "12.25" always matches regardless of float representation.
	overrides := t.OverrideB
	table := "B"
	if t.OverrideAPrefixes[prefix] {
		overrides = t.OverrideA
		table = "A"
	}
	key := fmt.Sprintf("%d%sx%d%sx%d",
		in.WidthWhole, t.Fractions.Text(in.WidthFraction),
		in.LengthWhole, t.Fractions.Text(in.LengthFraction),
		in.Depth)
	res.Trace.step(fmt.Sprintf("override table %s, key %s", table, key))
	if msg, ok := overrides[key]; ok {
		// The message either says "contact sales" or quotes its own dollar
		// figure; the engine surfaces it verbatim and never parses it.
		res.notice(msg)
		return res
	}

	face := width * length
	row, ok := findPleatPriceRow(t.PriceRows, prefix, face)
	if !ok {
		res.notice("Dimensions out of range")
		return res
	}

	column := pleatPriceColumn(prefix, in.Depth, priceCode, depth2Code, face)
	res.Trace.step(fmt.Sprintf("face %.2f -> row [%g, %g], column %s", face, row.AreaFrom, row.AreaTo, column))

	price, err := strconv.ParseFloat(row.Cells[column], 64)
	if err != nil {
		res.notice("Price not available for this configuration")
		return res
	}

	res.Price = round2(price)
	res.CartonQty = pleatCartonQty
	res.CartonPrice = round2(res.Price * pleatCartonQty)
	return res
}

// classifyPleatCut assigns the 1-4 secondary code from one depth's standard
// and oversize bounds.
func classifyPleatCut(width, length float64, th refdata.PleatThreshold) int {
	widthStd := width <= th.StdWidth
	lengthStd := length <= th.StdLength

	switch {
	case widthStd && lengthStd:
		return cutStandard
	case widthStd && length <= th.OversizeLength,
		lengthStd && width <= th.OversizeWidth:
		return cutOversize
	case widthStd && length > th.OversizeLength,
		lengthStd && width > th.OversizeWidth:
		return cutExtended
	default:
		return cutManualQuote
	}
}

// pleatPrimaryCode maps the secondary code to the part-number primary code.
// An exact cut with whole-number dimensions forces "CE" ahead of everything
// else, including the manual-quote code.
func pleatPrimaryCode(secondary int, exact bool, widthFrac, lengthFrac refdata.Fraction) string {
	if exact && widthFrac.IsZero() && lengthFrac.IsZero() {
		return "CE"
	}
	switch secondary {
	case cutManualQuote:
		return "CQ"
	case cutExtended:
		return "CT"
	case cutOversize:
		return "CD"
	default:
		return "C"
	}
}

func findPleatPriceRow(rows []refdata.PleatPriceRow, prefix string, face float64) (refdata.PleatPriceRow, bool) {
	for _, r := range rows {
		if r.Prefix == prefix && face >= r.AreaFrom && face <= r.AreaTo {
			return r, true
		}
	}
	return refdata.PleatPriceRow{}, false
}

// pleatPriceColumn picks the price matrix column. The rules reproduce the
// legacy workbook's per-family column formulas:
//
//   - 11255 reads the depth-2 code and always stays in the Update columns.
//   - 21104 reads the actual-depth code and always stays in the Double columns.
//   - 11206/11208 read the depth-2 code in the Double columns, escalating to
//     Triple once the code reaches 2.
//   - every other family keys the suffix off its depth, except that 2" cuts
//     with a face value in the 600-899 band that are not code 1 read Triple.
func pleatPriceColumn(prefix string, depth, actualCode, depth2Code int, face float64) string {
	switch {
	case prefix == highCapacityMerv8Prefix:
		return fmt.Sprintf("%d_Update", depth2Code)
	case prefix == highCapacityMerv11Prefix:
		return fmt.Sprintf("%d_Double", actualCode)
	case depth2CodedPrefixes[prefix]:
		suffix := "Double"
		if depth2Code >= 2 {
			suffix = "Triple"
		}
		return fmt.Sprintf("%d_%s", depth2Code, suffix)
	}

	suffix := "Update"
	switch depth {
	case 2:
		suffix = "Double"
	case 4:
		suffix = "Triple"
	}
	if depth == 2 && face >= 600 && face <= 899 && actualCode != cutStandard {
		suffix = "Triple"
	}
	return fmt.Sprintf("%d_%s", actualCode, suffix)
}
