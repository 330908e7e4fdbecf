package pricing

import (
	"reflect"
	"testing"
)

// Property sweeps over a broad input grid. These back the contract that the
// engines are pure one-shot functions: same inputs, same bits out, never a
// negative figure, and the carton price is always price times quantity.

func sweepPleatInputs() []PleatInput {
	var inputs []PleatInput
	for family := range testPleatTables().Products {
		for _, depth := range []int{1, 2, 4} {
			for width := 6; width <= 36; width += 6 {
				for length := 6; length <= 72; length += 11 {
					for _, exact := range []bool{false, true} {
						inputs = append(inputs, PleatInput{
							ProductFamily: family,
							WidthWhole:    width,
							WidthFraction: 4,
							LengthWhole:   length,
							Depth:         depth,
							IsExact:       exact,
						})
					}
				}
			}
		}
	}
	return inputs
}

func sweepPanelInputs() []PanelInput {
	var inputs []PanelInput
	for family := range testPanelTables().Families {
		for _, cutType := range []string{TypePanel, TypeLink} {
			for _, addOn := range []string{"None", AddOnAntimicrobial} {
				for height := 4; height <= 52; height += 8 {
					for width := 4; width <= 77; width += 13 {
						inputs = append(inputs, PanelInput{
							Family:      family,
							AddOn:       addOn,
							Type:        cutType,
							HeightWhole: height,
							WidthWhole:  width,
							PanelCount:  3,
						})
					}
				}
			}
		}
	}
	return inputs
}

func TestEnginesAreDeterministic(t *testing.T) {
	pleatTables := testPleatTables()
	for _, in := range sweepPleatInputs() {
		first := CalculatePleats(in, pleatTables)
		second := CalculatePleats(in, pleatTables)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("pleats not deterministic for %+v:\n%+v\n%+v", in, first, second)
		}
	}

	panelTables := testPanelTables()
	for _, in := range sweepPanelInputs() {
		first := CalculatePanels(in, panelTables)
		second := CalculatePanels(in, panelTables)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("panels not deterministic for %+v:\n%+v\n%+v", in, first, second)
		}
	}
}

func checkResultBounds(t *testing.T, engine string, res Result) {
	t.Helper()
	if res.Price < 0 || res.CartonQty < 0 || res.CartonPrice < 0 {
		t.Fatalf("%s produced a negative figure: %+v", engine, res)
	}
	if res.Price > 0 && res.CartonQty > 0 {
		want := round2(res.Price * float64(res.CartonQty))
		if res.CartonPrice != want {
			t.Fatalf("%s carton price %v != %v x %d", engine, res.CartonPrice, res.Price, res.CartonQty)
		}
	}
}

func TestResultsStayNonNegativeWithCartonIdentity(t *testing.T) {
	pleatTables := testPleatTables()
	for _, in := range sweepPleatInputs() {
		checkResultBounds(t, "pleats", CalculatePleats(in, pleatTables))
	}

	panelTables := testPanelTables()
	for _, in := range sweepPanelInputs() {
		checkResultBounds(t, "panels", CalculatePanels(in, panelTables))
	}

	padTables := testPadTables()
	for product := range padTables.Products {
		for _, option := range []string{OptionStandard, AddOnAntimicrobial} {
			for width := 4; width <= 250; width += 23 {
				for length := 4; length <= 150; length += 17 {
					res := CalculatePads(PadInput{
						Product:     product,
						Option:      option,
						WidthWhole:  width,
						LengthWhole: length,
					}, padTables)
					checkResultBounds(t, "pads", res)
				}
			}
		}
	}

	sleeveTables := testSleeveTables()
	for product := range sleeveTables.Products {
		for _, option := range []string{OptionStandard, "Antimicrobial"} {
			for width := 4; width <= 33; width += 5 {
				for length := 4; length <= 100; length += 12 {
					res := CalculateSleeves(SleeveInput{
						Product:     product,
						Option:      option,
						WidthWhole:  width,
						LengthWhole: length,
					}, sleeveTables)
					checkResultBounds(t, "sleeves", res)
				}
			}
		}
	}
}

func TestPleatTierCoverage(t *testing.T) {
	tables := testPleatTables()

	// Every whole face value inside a family's declared bounds must land in
	// a tier; gaps would surface as spurious "Dimensions out of range".
	bounds := map[string][2]float64{}
	for _, row := range tables.PriceRows {
		b, ok := bounds[row.Prefix]
		if !ok {
			bounds[row.Prefix] = [2]float64{row.AreaFrom, row.AreaTo}
			continue
		}
		if row.AreaFrom < b[0] {
			b[0] = row.AreaFrom
		}
		if row.AreaTo > b[1] {
			b[1] = row.AreaTo
		}
		bounds[row.Prefix] = b
	}

	for prefix, b := range bounds {
		for face := b[0]; face <= b[1]; face++ {
			if _, ok := findPleatPriceRow(tables.PriceRows, prefix, face); !ok {
				t.Fatalf("prefix %s: no tier for face %g inside [%g, %g]", prefix, face, b[0], b[1])
			}
		}
	}
}

func TestPadTierCoverage(t *testing.T) {
	tables := testPadTables()

	for prefix, tiers := range tables.PriceTables {
		min, max := tiers[0].AreaFrom, tiers[len(tiers)-1].AreaTo
		for face := min; face <= max; face += 7 {
			found := false
			for _, tier := range tiers {
				if face >= tier.AreaFrom && face <= tier.AreaTo {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("prefix %s: no tier for face %g inside [%g, %g]", prefix, face, min, max)
			}
		}
	}
}
