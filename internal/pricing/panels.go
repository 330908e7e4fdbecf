package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/natfilters/natpricing/internal/refdata"
)

// Cut types accepted by the panels/links calculator.
const (
	TypePanel = "Panel"
	TypeLink  = "Link"
)

// AddOnAntimicrobial is the antimicrobial add-on selection. Anything else is
// treated as the standard finish.
const AddOnAntimicrobial = "Antimicrobial"

const panelCartonQty = 12

// PanelInput is one panels/links quote request. Height and width follow the
// order form's orientation; the engine performs its own swap where the legacy
// part-number rules call for one.
type PanelInput struct {
	Family         string
	AddOn          string
	Type           string
	HeightWhole    int
	HeightFraction refdata.Fraction
	WidthWhole     int
	WidthFraction  refdata.Fraction

	// PanelCount only applies to Link cuts.
	PanelCount int

	IsExact   bool
	WithTrace bool
}

// CalculatePanels derives a panel or link part number and price. Pure
// function: it reads t but never mutates it.
func CalculatePanels(in PanelInput, t *refdata.PanelTables) Result {
	res := Result{}
	if in.WithTrace {
		res.Trace = &Trace{}
	}

	fam, ok := t.Families[in.Family]
	if !ok {
		res.PartNumber = "N/A"
		res.notice("Invalid Product Family")
		return res
	}

	height := float64(in.HeightWhole) + in.HeightFraction.Value()
	width := float64(in.WidthWhole) + in.WidthFraction.Value()
	antimicrobial := in.AddOn == AddOnAntimicrobial

	res.PartNumber = panelPartNumber(in, fam, t, antimicrobial, height, width)
	res.Trace.step("part number " + res.PartNumber)

	if in.Type == TypeLink && in.PanelCount >= 1 {
		res.LinkWidthRange = linkWidthRange(in.WidthWhole*in.PanelCount, t.LinkTiers)
	}

	// Validation errors suppress path B entirely; the result keeps path A's
	// zero price.
	pathA := false
	if in.IsExact {
		maxHeight := fam.MaxHeight
		if maxHeight == 0 {
			maxHeight = t.DefaultMaxHeight
		}
		if height > maxHeight {
			res.notice("height is out of range")
			pathA = true
		}
		if width > t.MaxWidth {
			res.notice("width is out of range")
			pathA = true
		}
	}
	if height < t.MinDimension || width < t.MinDimension {
		res.notice(fmt.Sprintf("minimum dimension is %g inches", t.MinDimension))
		pathA = true
	}

	if !pathA && !in.IsExact {
		key := fmt.Sprintf("%dX%d", in.HeightWhole, in.WidthWhole)
		if raw, ok := t.FixedOverrides[key]; ok {
			pathA = true
			res.Trace.step("fixed override hit on " + key)
			if price, err := strconv.ParseFloat(raw, 64); err == nil {
				res.Price = round2(price)
			} else {
				// Non-numeric override values are messages, not prices.
				res.notice(raw)
			}
		}
	}

	if !pathA {
		res.Price = panelCustomPrice(&res, in, fam, t, antimicrobial, height, width)
	}

	// Any accumulated error zeroes the price, whichever path produced it.
	if len(res.Notices) > 0 {
		res.Price = 0
	}

	if !pathA && res.Price > 0 {
		if in.Type == TypeLink && in.PanelCount >= 1 {
			res.CartonQty = panelCartonQty / in.PanelCount
		} else {
			res.CartonQty = panelCartonQty
		}
		res.CartonPrice = round2(res.Price * float64(res.CartonQty))
	}

	return res
}

// panelPartNumber assembles the identifier. Panels and links share the
// disallowed-pair short-circuit but differ in ordering and suffix rules.
func panelPartNumber(in PanelInput, fam refdata.PanelFamily, t *refdata.PanelTables, antimicrobial bool, height, width float64) string {
	if antimicrobial && fam.Name == t.NoAntimicrobial {
		return "N/A"
	}

	heightCode := t.Fractions.Code(in.HeightFraction)
	widthCode := t.Fractions.Code(in.WidthFraction)

	var sb strings.Builder
	sb.WriteString(fam.Prefix)

	if in.Type == TypeLink {
		// Links always read height-then-width.
		fmt.Fprintf(&sb, "%02d%s%02d%s", in.HeightWhole, heightCode, in.WidthWhole, widthCode)
		fmt.Fprintf(&sb, "%02d", in.PanelCount)
	} else {
		if height > width {
			fmt.Fprintf(&sb, "%02d%s%02d%s", in.HeightWhole, heightCode, in.WidthWhole, widthCode)
		} else {
			// Cross-swap: the width's integer leads but keeps the height's
			// fraction code, and vice versa. The workbook ordered panel part
			// numbers by the larger dimension this way.
			fmt.Fprintf(&sb, "%02d%s%02d%s", in.WidthWhole, heightCode, in.HeightWhole, widthCode)
		}
		if in.IsExact {
			sb.WriteString("E")
		}
		sb.WriteString("01")
	}

	if antimicrobial {
		sb.WriteString("AT")
	}
	return sb.String()
}

// panelCustomPrice walks the ordered custom price list (path B). Appends
// notices on res for unmatched dimensions and unavailable options; the caller
// zeroes the price when any notice is present.
func panelCustomPrice(res *Result, in PanelInput, fam refdata.PanelFamily, t *refdata.PanelTables, antimicrobial bool, height, width float64) float64 {
	face := math.Ceil(height * width)
	res.Trace.step(fmt.Sprintf("path B, face value %g", face))

	var row *refdata.PanelCustomRow
	for i := range t.CustomRows {
		r := &t.CustomRows[i]
		if r.Type != fam.Prefix {
			continue
		}

		heightOK := matchDimensionRule(r.HeightRule, height)
		widthOK := matchDimensionRule(r.WidthRule, width)
		if !heightOK && !widthOK {
			continue
		}
		// One dimension missed: retry it with the lower bound dropped.
		if !heightOK {
			heightOK = matchRelaxedDimensionRule(r.HeightRule, height)
		}
		if !widthOK {
			widthOK = matchRelaxedDimensionRule(r.WidthRule, width)
		}
		if !heightOK || !widthOK {
			continue
		}

		if face >= r.AreaFrom && face <= r.AreaTo {
			row = r
			break
		}
		if face > r.AreaTo && lastRowOfBucket(t.CustomRows, i) {
			// The legacy lookup ran past the end of a bucket and returned
			// its last tier instead of failing. Keep that behavior.
			row = r
			res.Trace.step("face beyond bucket, clamped to last tier")
			break
		}
	}

	if row == nil {
		res.notice("No price found for these dimensions")
		return 0
	}

	raw := row.Price
	if antimicrobial {
		raw = row.ATPrice
		if strings.EqualFold(strings.TrimSpace(raw), "N/A") {
			res.notice("Antimicrobial pricing not available for this configuration")
			return 0
		}
	}

	price, err := parseCurrency(raw)
	if err != nil {
		res.notice("Price not available for this configuration")
		return 0
	}

	if in.Type == TypeLink && in.PanelCount >= 1 {
		price *= float64(in.PanelCount)
	}
	return round2(price)
}

// lastRowOfBucket reports whether row i is the final row of its dimension
// bucket (same type, height rule, and width rule).
func lastRowOfBucket(rows []refdata.PanelCustomRow, i int) bool {
	if i+1 >= len(rows) {
		return true
	}
	cur, next := rows[i], rows[i+1]
	return next.Type != cur.Type || next.HeightRule != cur.HeightRule || next.WidthRule != cur.WidthRule
}

// parseCurrency parses a plain or currency-formatted number ("$1,234.56").
func parseCurrency(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	return strconv.ParseFloat(cleaned, 64)
}

// linkWidthRange formats the nominal-width range for a link cut. The first
// seven tiers are checked in fixed positions because the fifth position
// replicates a legacy formula typo: it compares not-equal where a less-than
// was meant, so any nominal width past the fourth tier lands in tier five
// unless it equals tier five's bound exactly. Rebuilding this as a generic
// sorted search would change which tier boundary cuts select.
func linkWidthRange(nominal int, tiers []refdata.LinkTier) string {
	if len(tiers) == 0 {
		return ""
	}

	buttons, matched := 0, false
	fixed := len(tiers)
	if fixed > 7 {
		fixed = 7
	}
	for i := 0; i < fixed && !matched; i++ {
		if i == 4 {
			// Legacy tier-5 typo, preserved on purpose.
			if nominal != tiers[i].LengthMax {
				buttons, matched = tiers[i].ButtonPanels, true
			}
			continue
		}
		if nominal < tiers[i].LengthMax {
			buttons, matched = tiers[i].ButtonPanels, true
		}
	}

	if !matched {
		for _, tier := range tiers[fixed:] {
			if nominal < tier.LengthMax {
				buttons, matched = tier.ButtonPanels, true
				break
			}
		}
	}
	if !matched {
		// At or past the last bound: clamp to the last tier rather than
		// reporting an overflow, as the legacy lookup did.
		buttons = tiers[len(tiers)-1].ButtonPanels
	}

	return fmt.Sprintf("%d-%d\"", nominal-buttons, nominal+buttons)
}
