package pricing

import (
	"fmt"
	"math"
	"testing"

	"github.com/natfilters/natpricing/internal/refdata"
)

// Shared in-memory reference tables mirroring the shape of the seeded
// database. Tests build fresh copies so nothing can leak between cases.

func testFractions() refdata.FractionCodes {
	return refdata.FractionCodes{
		{Sixteenths: 2, Code: "A", Text: ".125"},
		{Sixteenths: 4, Code: "B", Text: ".25"},
		{Sixteenths: 6, Code: "C", Text: ".375"},
		{Sixteenths: 8, Code: "D", Text: ".5"},
		{Sixteenths: 10, Code: "E", Text: ".625"},
		{Sixteenths: 12, Code: "F", Text: ".75"},
		{Sixteenths: 14, Code: "G", Text: ".875"},
	}
}

// pleatCells builds a full nine-column price row where every cell holds a
// distinct value, so tests can assert exactly which column an input selected:
// cell = base + code, plus 10 per suffix group (Update 0, Double 10, Triple 20).
func pleatCells(base float64) map[string]string {
	cells := make(map[string]string)
	offset := 0.0
	for _, suffix := range []string{"Update", "Double", "Triple"} {
		for code := 1; code <= 3; code++ {
			cells[fmt.Sprintf("%d_%s", code, suffix)] = fmt.Sprintf("%.2f", base+offset+float64(code))
		}
		offset += 10
	}
	return cells
}

func testPleatTables() *refdata.PleatTables {
	return &refdata.PleatTables{
		Products: map[string]string{
			"Tri-Pleat MERV 8":                "11204",
			"Tri-Pleat MERV 11":               "11206",
			"Tri-Pleat MERV 13":               "11208",
			"Tri-Pleat High Capacity MERV 8":  "11255",
			"Tri-Pleat High Capacity MERV 11": "21104",
			"Tri-Pleat LPD":                   "21106",
			"Econo Pleat":                     "91100",
		},
		Fractions: testFractions(),
		Thresholds: []refdata.PleatThreshold{
			{Depth: 1, StdWidth: 25, StdLength: 40, OversizeWidth: 30, OversizeLength: 48},
			{Depth: 2, StdWidth: 24, StdLength: 36, OversizeWidth: 30, OversizeLength: 48},
			{Depth: 4, StdWidth: 24, StdLength: 30, OversizeWidth: 28, OversizeLength: 42},
		},
		OverrideA: map[string]string{
			"16x20x1": "Standard Part #11204C011620 - contact sales",
		},
		OverrideB: map[string]string{
			"18x24x2": "Call for Quote",
		},
		OverrideAPrefixes: map[string]bool{
			"11204": true,
			"11206": true,
			"11208": true,
		},
		PriceRows: []refdata.PleatPriceRow{
			{Prefix: "11204", AreaFrom: 0, AreaTo: 575, Cells: pleatCells(10)},
			{Prefix: "11204", AreaFrom: 576, AreaTo: 899, Cells: pleatCells(20)},
			{Prefix: "11204", AreaFrom: 900, AreaTo: 1728, Cells: pleatCells(30)},
			{Prefix: "11206", AreaFrom: 0, AreaTo: 899, Cells: pleatCells(40)},
			{Prefix: "11206", AreaFrom: 900, AreaTo: 1728, Cells: pleatCells(50)},
			{Prefix: "11255", AreaFrom: 0, AreaTo: 1728, Cells: pleatCells(60)},
			{Prefix: "21104", AreaFrom: 0, AreaTo: 1728, Cells: pleatCells(70)},
			{Prefix: "21106", AreaFrom: 0, AreaTo: 899, Cells: pleatCells(80)},
			{Prefix: "21106", AreaFrom: 900, AreaTo: 1728, Cells: map[string]string{
				"1_Update": "N/A", "2_Update": "92.00", "3_Update": "93.00",
				"1_Double": "94.00", "2_Double": "95.00", "3_Double": "96.00",
				"1_Triple": "97.00", "2_Triple": "98.00", "3_Triple": "99.00",
			}},
		},
	}
}

func testPanelTables() *refdata.PanelTables {
	return &refdata.PanelTables{
		Families: map[string]refdata.PanelFamily{
			"Tri-Dek FC Panel":    {Name: "Tri-Dek FC Panel", Prefix: "045", MaxHeight: 24.875},
			"Tri-Dek 3/67 2-Ply":  {Name: "Tri-Dek 3/67 2-Ply", Prefix: "047", MaxHeight: 51.25},
			"Tri-Dek 15/40 3-Ply": {Name: "Tri-Dek 15/40 3-Ply", Prefix: "048", MaxHeight: 51.25},
			"Tri-Dek 4-Ply XL":    {Name: "Tri-Dek 4-Ply XL", Prefix: "049"},
		},
		NoAntimicrobial:  "Tri-Dek FC Panel",
		DefaultMaxHeight: 51.25,
		MaxWidth:         77.875,
		MinDimension:     3.25,
		Fractions:        testFractions(),
		FixedOverrides: map[string]string{
			"24X36": "34.60",
			"20X20": "Standard Part #04520 - contact sales",
		},
		CustomRows: []refdata.PanelCustomRow{
			{Type: "047", HeightRule: ">=4;<34", WidthRule: "ALL", AreaFrom: 0, AreaTo: 499, Price: "28.00", ATPrice: "$32.50"},
			{Type: "047", HeightRule: ">=4;<34", WidthRule: "ALL", AreaFrom: 500, AreaTo: 999, Price: "39.00", ATPrice: "N/A"},
			{Type: "047", HeightRule: ">34;<52", WidthRule: "ALL", AreaFrom: 0, AreaTo: 1999, Price: "52.00", ATPrice: "$58.00"},
			{Type: "048", HeightRule: "ALL", WidthRule: ">=4;<40", AreaFrom: 0, AreaTo: 1499, Price: "44.00", ATPrice: "$49.75"},
			{Type: "049", HeightRule: "ALL", WidthRule: "ALL", AreaFrom: 0, AreaTo: 3999, Price: "61.00", ATPrice: "$1,067.50"},
		},
		LinkTiers: []refdata.LinkTier{
			{LengthMax: 24, ButtonPanels: 1},
			{LengthMax: 36, ButtonPanels: 1},
			{LengthMax: 48, ButtonPanels: 2},
			{LengthMax: 60, ButtonPanels: 2},
			{LengthMax: 72, ButtonPanels: 3},
			{LengthMax: 96, ButtonPanels: 4},
			{LengthMax: 120, ButtonPanels: 5},
		},
	}
}

func testPadTables() *refdata.PadTables {
	return &refdata.PadTables{
		Products: map[string]refdata.PadProduct{
			"Tri-Dek #3 Media Pad": {
				Name: "Tri-Dek #3 Media Pad", Prefix: "161",
				MinWidth: 4, MaxWidth: 70, MinLength: 4, MaxLength: 150,
				StandardCartonQty: 24,
			},
			"Tri-Dek #10 Media Pad": {
				Name: "Tri-Dek #10 Media Pad", Prefix: "164",
				MinWidth: 4, MaxWidth: 250, MinLength: 4, MaxLength: 150,
				StandardCartonQty: 12,
			},
			"Tri-Dek 2-Ply 15/40 Media Pad": {
				Name: "Tri-Dek 2-Ply 15/40 Media Pad", Prefix: "171",
				MinWidth: 4, MaxWidth: 250, MinLength: 4, MaxLength: 150,
				StandardCartonQty: 12,
			},
		},
		WidthCaps: map[string]float64{
			"164": 200,
			"171": 225,
		},
		ATPrefixes: map[string]bool{
			"171": true,
			"172": true,
			"173": true,
		},
		Fractions: testFractions(),
		Exceptions: map[string]string{
			"1612436": "Standard Part #12345 - contact sales",
		},
		CartonUnder26: map[string]int{
			"161": 48,
			"171": 36,
		},
		CartonLengthTiers: []refdata.PadCartonTier{
			{MaxLength: 36, Qty: 24},
			{MaxLength: 72, Qty: 12},
			{MaxLength: 150, Qty: 6},
		},
		PriceTables: map[string][]refdata.PadPriceTier{
			"161": {
				{AreaFrom: 0, AreaTo: 863, Standard: "12.40", Antimicrobial: ""},
				{AreaFrom: 864, AreaTo: 1727, Standard: "18.20", Antimicrobial: ""},
				{AreaFrom: 1728, AreaTo: 10500, Standard: "24.60", Antimicrobial: ""},
			},
			"164": {
				{AreaFrom: 0, AreaTo: 10500, Standard: "21.00", Antimicrobial: ""},
				{AreaFrom: 10501, AreaTo: 37500, Standard: "27.50", Antimicrobial: ""},
			},
			"171": {
				{AreaFrom: 0, AreaTo: 1727, Standard: "14.80", Antimicrobial: "17.90"},
				{AreaFrom: 1728, AreaTo: 10500, Standard: "19.60", Antimicrobial: "23.80"},
				{AreaFrom: 10501, AreaTo: 33750, Standard: "24.10", Antimicrobial: "0"},
			},
		},
	}
}

func testSleeveTables() *refdata.SleeveTables {
	return &refdata.SleeveTables{
		Products: map[string]refdata.SleeveProduct{
			"Tri-Cell Sleeve": {
				Name: "Tri-Cell Sleeve", Prefix: "070",
				Options:  []string{"Standard", "Antimicrobial"},
				MinWidth: 4, MaxWidth: 33.25, MinLength: 4, MaxLength: 100,
			},
			"Tri-Cell Wire Frame": {
				Name: "Tri-Cell Wire Frame", Prefix: "072",
				Options:  []string{"Standard"},
				MinWidth: 4, MaxWidth: 33.25, MinLength: 4, MaxLength: 100,
			},
		},
		FramePrefix: "072",
		Fractions:   testFractions(),
		CrossWires: []refdata.CrossWireRule{
			{MaxDimension: 12, WireCount: 2},
			{MaxDimension: 24, WireCount: 3},
			{MaxDimension: 36, WireCount: 4},
			{MaxDimension: 48, WireCount: 5},
			{MaxDimension: 100, WireCount: 6},
		},
		FrameBands: []refdata.FrameBand{
			{WidthMin: 4, WidthMax: 8.88, Tiers: []refdata.FrameTier{
				{AreaMax: 300, Price: 12.40}, {AreaMax: 600, Price: 16.80}, {AreaMax: 888, Price: 21.10},
			}},
			{WidthMin: 8.88, WidthMax: 16.875, Tiers: []refdata.FrameTier{
				{AreaMax: 600, Price: 18.20}, {AreaMax: 1200, Price: 24.60}, {AreaMax: 1688, Price: 30.00},
			}},
			{WidthMin: 16.875, WidthMax: 33.25, Tiers: []refdata.FrameTier{
				{AreaMax: 1200, Price: 26.40}, {AreaMax: 2400, Price: 35.10}, {AreaMax: 3325, Price: 44.90},
			}},
		},
		SleeveTiers: []refdata.SleeveTier{
			{AreaFrom: 0, AreaTo: 500, Standard: 8.40, Antimicrobial: 10.20},
			{AreaFrom: 501, AreaTo: 1500, Standard: 12.60, Antimicrobial: 15.30},
			{AreaFrom: 1501, AreaTo: 3325, Standard: 18.90, Antimicrobial: 22.95},
		},
		SleeveCartons: []refdata.SleeveCartonTier{
			{MaxLength: 24, Qty: 24},
			{MaxLength: 48, Qty: 12},
			{MaxLength: 100, Qty: 6},
		},
	}
}

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func hasNotice(res Result, want string) bool {
	for _, n := range res.Notices {
		if n == want {
			return true
		}
	}
	return false
}
