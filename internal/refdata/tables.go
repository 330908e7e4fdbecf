package refdata

// Reference tables for the four product families. Everything here is loaded
// once at startup and treated as immutable for the lifetime of the process;
// the pricing engines never mutate a table.
//
// Product prefixes look numeric but are stored as strings throughout because
// several of them carry leading zeros ("045", "072") that must survive into
// generated part numbers.

// PleatThreshold holds the standard and oversize dimension bounds for one
// pleat depth.
type PleatThreshold struct {
	Depth          int
	StdWidth       float64
	StdLength      float64
	OversizeWidth  float64
	OversizeLength float64
}

// PleatPriceRow is one row of the tiered pleat price matrix. Cells is keyed
// by column name in the "<code>_<suffix>" form the legacy workbook used
// ("1_Update", "2_Triple", ...). Cell values stay strings: a non-numeric cell
// means the configuration has no published price.
type PleatPriceRow struct {
	Prefix   string
	AreaFrom float64
	AreaTo   float64
	Cells    map[string]string
}

// PleatTables bundles every lookup the pleats engine needs.
type PleatTables struct {
	// Products maps the display name of a product family to its numeric
	// part-number prefix.
	Products map[string]string

	Fractions  FractionCodes
	Thresholds []PleatThreshold

	// OverrideA and OverrideB are the two dimension-keyed exception tables.
	// OverrideAPrefixes is the fixed set of family prefixes that always
	// search table A; everything else searches table B.
	OverrideA         map[string]string
	OverrideB         map[string]string
	OverrideAPrefixes map[string]bool

	PriceRows []PleatPriceRow
}

// ThresholdFor returns the bounds row for depth, or false when the depth has
// no row.
func (t *PleatTables) ThresholdFor(depth int) (PleatThreshold, bool) {
	for _, th := range t.Thresholds {
		if th.Depth == depth {
			return th, true
		}
	}
	return PleatThreshold{}, false
}

// PanelFamily describes one panels/links product family.
type PanelFamily struct {
	Name      string
	Prefix    string
	MaxHeight float64
}

// PanelCustomRow is one row of the ordered custom price list. HeightRule and
// WidthRule are ';'-joined comparison expressions (">34;<78") or the literal
// "ALL". Price and ATPrice are raw cell strings: ATPrice may be a currency
// string ("$1,234.56") or the "N/A" sentinel meaning the antimicrobial option
// is not offered on that row.
type PanelCustomRow struct {
	Type       string
	HeightRule string
	WidthRule  string
	AreaFrom   float64
	AreaTo     float64
	Price      string
	ATPrice    string
}

// LinkTier is one tier of the link-width-range table.
type LinkTier struct {
	LengthMax    int
	ButtonPanels int
}

// PanelTables bundles every lookup the panels/links engine needs.
type PanelTables struct {
	Families map[string]PanelFamily

	// NoAntimicrobial names the one family that never supports the
	// antimicrobial add-on.
	NoAntimicrobial string

	DefaultMaxHeight float64
	MaxWidth         float64
	MinDimension     float64

	Fractions FractionCodes

	// FixedOverrides is keyed by the literal "HxW" whole-number pair.
	FixedOverrides map[string]string

	// CustomRows preserves workbook order; the engine's lookup-overrun
	// handling depends on it.
	CustomRows []PanelCustomRow

	LinkTiers []LinkTier
}

// PadProduct describes one media-pad product and its validation bounds.
type PadProduct struct {
	Name              string
	Prefix            string
	MinWidth          float64
	MaxWidth          float64
	MinLength         float64
	MaxLength         float64
	StandardCartonQty int
}

// PadPriceTier is one face-area tier of a pad price table. Standard and
// Antimicrobial are raw cell strings; blank or zero means the option has no
// published price in that tier.
type PadPriceTier struct {
	AreaFrom      float64
	AreaTo        float64
	Standard      string
	Antimicrobial string
}

// PadCartonTier maps a maximum whole length to a carton quantity.
type PadCartonTier struct {
	MaxLength int
	Qty       int
}

// PadTables bundles every lookup the pads engine needs.
type PadTables struct {
	Products map[string]PadProduct

	// WidthCaps overrides the generic per-product max width for a handful of
	// prefixes; it takes precedence over PadProduct.MaxWidth.
	WidthCaps map[string]float64

	// ATPrefixes is the fixed set of prefixes eligible for the antimicrobial
	// option.
	ATPrefixes map[string]bool

	Fractions FractionCodes

	// Exceptions is keyed by prefix + whole width + whole length
	// concatenated ("1612436").
	Exceptions map[string]string

	// CartonUnder26 applies when the total length is below 26 inches;
	// CartonLengthTiers covers everything else.
	CartonUnder26     map[string]int
	CartonLengthTiers []PadCartonTier

	// PriceTables is keyed by product prefix.
	PriceTables map[string][]PadPriceTier
}

// SleeveProduct describes one sleeve or wire-frame product.
type SleeveProduct struct {
	Name      string
	Prefix    string
	Options   []string
	MinWidth  float64
	MaxWidth  float64
	MinLength float64
	MaxLength float64
}

// AllowsOption reports whether name is in the product's allowed-options list.
func (p SleeveProduct) AllowsOption(name string) bool {
	for _, o := range p.Options {
		if o == name {
			return true
		}
	}
	return false
}

// CrossWireRule maps the larger whole dimension of a frame to its cross-wire
// count.
type CrossWireRule struct {
	MaxDimension int
	WireCount    int
}

// FrameTier is one face-area tier inside a frame width band.
type FrameTier struct {
	AreaMax float64
	Price   float64
}

// FrameBand is one of the three fixed frame width bands. WidthMin is
// exclusive except for the first band; WidthMax is inclusive.
type FrameBand struct {
	WidthMin float64
	WidthMax float64
	Tiers    []FrameTier
}

// SleeveTier is one face-area tier of the sleeve price table.
type SleeveTier struct {
	AreaFrom      float64
	AreaTo        float64
	Standard      float64
	Antimicrobial float64
}

// SleeveCartonTier maps a maximum whole length to a sleeve carton quantity.
type SleeveCartonTier struct {
	MaxLength int
	Qty       int
}

// SleeveTables bundles every lookup the sleeves/frames engine needs.
type SleeveTables struct {
	Products map[string]SleeveProduct

	// FramePrefix discriminates the wire-frame sub-product.
	FramePrefix string

	Fractions FractionCodes

	CrossWires    []CrossWireRule
	FrameBands    []FrameBand
	SleeveTiers   []SleeveTier
	SleeveCartons []SleeveCartonTier
}

// Bundle aggregates the reference tables for all four calculators. The server
// loads one Bundle at startup and shares it, read-only, across requests.
type Bundle struct {
	Pleats  PleatTables
	Panels  PanelTables
	Pads    PadTables
	Sleeves SleeveTables
}
