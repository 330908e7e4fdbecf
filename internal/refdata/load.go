package refdata

import (
	"database/sql"
	"fmt"
	"strings"
)

// Load reads every reference table out of the database into one immutable
// Bundle. It is called once at startup; the engines never touch the database
// afterwards.
func Load(db *sql.DB) (*Bundle, error) {
	b := &Bundle{}

	var err error
	if b.Pleats, err = loadPleats(db); err != nil {
		return nil, fmt.Errorf("load pleat tables: %w", err)
	}
	if b.Panels, err = loadPanels(db); err != nil {
		return nil, fmt.Errorf("load panel tables: %w", err)
	}
	if b.Pads, err = loadPads(db); err != nil {
		return nil, fmt.Errorf("load pad tables: %w", err)
	}
	if b.Sleeves, err = loadSleeves(db); err != nil {
		return nil, fmt.Errorf("load sleeve tables: %w", err)
	}

	return b, nil
}

func loadFractions(db *sql.DB, calculator string) (FractionCodes, error) {
	rows, err := db.Query(`
		SELECT sixteenths, code, literal
		FROM fraction_codes
		WHERE calculator = ?
		ORDER BY sixteenths
	`, calculator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := FractionCodes{}
	for rows.Next() {
		var fc FractionCode
		var sixteenths int
		if err := rows.Scan(&sixteenths, &fc.Code, &fc.Text); err != nil {
			return nil, err
		}
		fc.Sixteenths = Fraction(sixteenths)
		codes = append(codes, fc)
	}
	return codes, rows.Err()
}

func loadStringMap(db *sql.DB, query string, args ...any) (map[string]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, rows.Err()
}

func loadPleats(db *sql.DB) (PleatTables, error) {
	t := PleatTables{}

	var err error
	if t.Products, err = loadStringMap(db, `SELECT name, prefix FROM pleat_products`); err != nil {
		return t, fmt.Errorf("pleat products: %w", err)
	}
	if t.Fractions, err = loadFractions(db, "pleats"); err != nil {
		return t, fmt.Errorf("pleat fractions: %w", err)
	}

	rows, err := db.Query(`
		SELECT depth, std_width, std_length, oversize_width, oversize_length
		FROM pleat_thresholds
		ORDER BY depth
	`)
	if err != nil {
		return t, fmt.Errorf("pleat thresholds: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var th PleatThreshold
		if err := rows.Scan(&th.Depth, &th.StdWidth, &th.StdLength, &th.OversizeWidth, &th.OversizeLength); err != nil {
			return t, fmt.Errorf("pleat thresholds: %w", err)
		}
		t.Thresholds = append(t.Thresholds, th)
	}
	if err := rows.Err(); err != nil {
		return t, fmt.Errorf("pleat thresholds: %w", err)
	}

	if t.OverrideA, err = loadStringMap(db, `SELECT dim_key, message FROM pleat_overrides WHERE tbl = 'A'`); err != nil {
		return t, fmt.Errorf("pleat override table A: %w", err)
	}
	if t.OverrideB, err = loadStringMap(db, `SELECT dim_key, message FROM pleat_overrides WHERE tbl = 'B'`); err != nil {
		return t, fmt.Errorf("pleat override table B: %w", err)
	}

	prefixRows, err := db.Query(`SELECT prefix FROM pleat_override_a_prefixes`)
	if err != nil {
		return t, fmt.Errorf("pleat override A prefixes: %w", err)
	}
	defer prefixRows.Close()
	t.OverrideAPrefixes = make(map[string]bool)
	for prefixRows.Next() {
		var p string
		if err := prefixRows.Scan(&p); err != nil {
			return t, fmt.Errorf("pleat override A prefixes: %w", err)
		}
		t.OverrideAPrefixes[p] = true
	}
	if err := prefixRows.Err(); err != nil {
		return t, fmt.Errorf("pleat override A prefixes: %w", err)
	}

	priceRows, err := db.Query(`
		SELECT prefix, area_from, area_to,
			c1_update, c2_update, c3_update,
			c1_double, c2_double, c3_double,
			c1_triple, c2_triple, c3_triple
		FROM pleat_price_rows
		ORDER BY prefix, area_from
	`)
	if err != nil {
		return t, fmt.Errorf("pleat price rows: %w", err)
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var r PleatPriceRow
		cells := make([]string, 9)
		if err := priceRows.Scan(&r.Prefix, &r.AreaFrom, &r.AreaTo,
			&cells[0], &cells[1], &cells[2],
			&cells[3], &cells[4], &cells[5],
			&cells[6], &cells[7], &cells[8]); err != nil {
			return t, fmt.Errorf("pleat price rows: %w", err)
		}
		r.Cells = map[string]string{
			"1_Update": cells[0], "2_Update": cells[1], "3_Update": cells[2],
			"1_Double": cells[3], "2_Double": cells[4], "3_Double": cells[5],
			"1_Triple": cells[6], "2_Triple": cells[7], "3_Triple": cells[8],
		}
		t.PriceRows = append(t.PriceRows, r)
	}
	return t, priceRows.Err()
}

func loadPanels(db *sql.DB) (PanelTables, error) {
	t := PanelTables{Families: make(map[string]PanelFamily)}

	rows, err := db.Query(`SELECT name, prefix, max_height FROM panel_families`)
	if err != nil {
		return t, fmt.Errorf("panel families: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f PanelFamily
		if err := rows.Scan(&f.Name, &f.Prefix, &f.MaxHeight); err != nil {
			return t, fmt.Errorf("panel families: %w", err)
		}
		t.Families[f.Name] = f
	}
	if err := rows.Err(); err != nil {
		return t, fmt.Errorf("panel families: %w", err)
	}

	err = db.QueryRow(`
		SELECT no_antimicrobial, default_max_height, max_width, min_dimension
		FROM panel_rules
		WHERE id = 1
	`).Scan(&t.NoAntimicrobial, &t.DefaultMaxHeight, &t.MaxWidth, &t.MinDimension)
	if err != nil {
		return t, fmt.Errorf("panel rules singleton: %w", err)
	}

	if t.Fractions, err = loadFractions(db, "panels"); err != nil {
		return t, fmt.Errorf("panel fractions: %w", err)
	}
	if t.FixedOverrides, err = loadStringMap(db, `SELECT dim_key, value FROM panel_fixed_overrides`); err != nil {
		return t, fmt.Errorf("panel fixed overrides: %w", err)
	}

	customRows, err := db.Query(`
		SELECT type, height_rule, width_rule, area_from, area_to, price, at_price
		FROM panel_custom_rows
		ORDER BY position
	`)
	if err != nil {
		return t, fmt.Errorf("panel custom rows: %w", err)
	}
	defer customRows.Close()
	for customRows.Next() {
		var r PanelCustomRow
		if err := customRows.Scan(&r.Type, &r.HeightRule, &r.WidthRule, &r.AreaFrom, &r.AreaTo, &r.Price, &r.ATPrice); err != nil {
			return t, fmt.Errorf("panel custom rows: %w", err)
		}
		t.CustomRows = append(t.CustomRows, r)
	}
	if err := customRows.Err(); err != nil {
		return t, fmt.Errorf("panel custom rows: %w", err)
	}

	tierRows, err := db.Query(`SELECT length_max, button_panels FROM link_tiers ORDER BY position`)
	if err != nil {
		return t, fmt.Errorf("link tiers: %w", err)
	}
	defer tierRows.Close()
	for tierRows.Next() {
		var lt LinkTier
		if err := tierRows.Scan(&lt.LengthMax, &lt.ButtonPanels); err != nil {
			return t, fmt.Errorf("link tiers: %w", err)
		}
		t.LinkTiers = append(t.LinkTiers, lt)
	}
	return t, tierRows.Err()
}

func loadPads(db *sql.DB) (PadTables, error) {
	t := PadTables{
		Products:      make(map[string]PadProduct),
		WidthCaps:     make(map[string]float64),
		ATPrefixes:    make(map[string]bool),
		CartonUnder26: make(map[string]int),
		PriceTables:   make(map[string][]PadPriceTier),
	}

	rows, err := db.Query(`
		SELECT name, prefix, min_width, max_width, min_length, max_length, carton_qty
		FROM pad_products
	`)
	if err != nil {
		return t, fmt.Errorf("pad products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p PadProduct
		if err := rows.Scan(&p.Name, &p.Prefix, &p.MinWidth, &p.MaxWidth, &p.MinLength, &p.MaxLength, &p.StandardCartonQty); err != nil {
			return t, fmt.Errorf("pad products: %w", err)
		}
		t.Products[p.Name] = p
	}
	if err := rows.Err(); err != nil {
		return t, fmt.Errorf("pad products: %w", err)
	}

	capRows, err := db.Query(`SELECT prefix, max_width FROM pad_width_caps`)
	if err != nil {
		return t, fmt.Errorf("pad width caps: %w", err)
	}
	defer capRows.Close()
	for capRows.Next() {
		var prefix string
		var maxWidth float64
		if err := capRows.Scan(&prefix, &maxWidth); err != nil {
			return t, fmt.Errorf("pad width caps: %w", err)
		}
		t.WidthCaps[prefix] = maxWidth
	}
	if err := capRows.Err(); err != nil {
		return t, fmt.Errorf("pad width caps: %w", err)
	}

	atRows, err := db.Query(`SELECT prefix FROM pad_at_prefixes`)
	if err != nil {
		return t, fmt.Errorf("pad antimicrobial prefixes: %w", err)
	}
	defer atRows.Close()
	for atRows.Next() {
		var p string
		if err := atRows.Scan(&p); err != nil {
			return t, fmt.Errorf("pad antimicrobial prefixes: %w", err)
		}
		t.ATPrefixes[p] = true
	}
	if err := atRows.Err(); err != nil {
		return t, fmt.Errorf("pad antimicrobial prefixes: %w", err)
	}

	if t.Fractions, err = loadFractions(db, "pads"); err != nil {
		return t, fmt.Errorf("pad fractions: %w", err)
	}
	if t.Exceptions, err = loadStringMap(db, `SELECT part_key, message FROM pad_exceptions`); err != nil {
		return t, fmt.Errorf("pad exceptions: %w", err)
	}

	underRows, err := db.Query(`SELECT prefix, qty FROM pad_carton_under26`)
	if err != nil {
		return t, fmt.Errorf("pad carton under-26: %w", err)
	}
	defer underRows.Close()
	for underRows.Next() {
		var prefix string
		var qty int
		if err := underRows.Scan(&prefix, &qty); err != nil {
			return t, fmt.Errorf("pad carton under-26: %w", err)
		}
		t.CartonUnder26[prefix] = qty
	}
	if err := underRows.Err(); err != nil {
		return t, fmt.Errorf("pad carton under-26: %w", err)
	}

	cartonRows, err := db.Query(`SELECT max_length, qty FROM pad_carton_tiers ORDER BY max_length`)
	if err != nil {
		return t, fmt.Errorf("pad carton tiers: %w", err)
	}
	defer cartonRows.Close()
	for cartonRows.Next() {
		var ct PadCartonTier
		if err := cartonRows.Scan(&ct.MaxLength, &ct.Qty); err != nil {
			return t, fmt.Errorf("pad carton tiers: %w", err)
		}
		t.CartonLengthTiers = append(t.CartonLengthTiers, ct)
	}
	if err := cartonRows.Err(); err != nil {
		return t, fmt.Errorf("pad carton tiers: %w", err)
	}

	priceRows, err := db.Query(`
		SELECT prefix, area_from, area_to, standard, antimicrobial
		FROM pad_price_tiers
		ORDER BY prefix, area_from
	`)
	if err != nil {
		return t, fmt.Errorf("pad price tiers: %w", err)
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var prefix string
		var tier PadPriceTier
		if err := priceRows.Scan(&prefix, &tier.AreaFrom, &tier.AreaTo, &tier.Standard, &tier.Antimicrobial); err != nil {
			return t, fmt.Errorf("pad price tiers: %w", err)
		}
		t.PriceTables[prefix] = append(t.PriceTables[prefix], tier)
	}
	return t, priceRows.Err()
}

func loadSleeves(db *sql.DB) (SleeveTables, error) {
	t := SleeveTables{Products: make(map[string]SleeveProduct)}

	rows, err := db.Query(`
		SELECT name, prefix, options, min_width, max_width, min_length, max_length
		FROM sleeve_products
	`)
	if err != nil {
		return t, fmt.Errorf("sleeve products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p SleeveProduct
		var options string
		if err := rows.Scan(&p.Name, &p.Prefix, &options, &p.MinWidth, &p.MaxWidth, &p.MinLength, &p.MaxLength); err != nil {
			return t, fmt.Errorf("sleeve products: %w", err)
		}
		for _, o := range strings.Split(options, ";") {
			if o = strings.TrimSpace(o); o != "" {
				p.Options = append(p.Options, o)
			}
		}
		t.Products[p.Name] = p
	}
	if err := rows.Err(); err != nil {
		return t, fmt.Errorf("sleeve products: %w", err)
	}

	err = db.QueryRow(`SELECT frame_prefix FROM sleeve_rules WHERE id = 1`).Scan(&t.FramePrefix)
	if err != nil {
		return t, fmt.Errorf("sleeve rules singleton: %w", err)
	}

	if t.Fractions, err = loadFractions(db, "sleeves"); err != nil {
		return t, fmt.Errorf("sleeve fractions: %w", err)
	}

	wireRows, err := db.Query(`SELECT max_dimension, wire_count FROM cross_wires ORDER BY max_dimension`)
	if err != nil {
		return t, fmt.Errorf("cross wires: %w", err)
	}
	defer wireRows.Close()
	for wireRows.Next() {
		var cw CrossWireRule
		if err := wireRows.Scan(&cw.MaxDimension, &cw.WireCount); err != nil {
			return t, fmt.Errorf("cross wires: %w", err)
		}
		t.CrossWires = append(t.CrossWires, cw)
	}
	if err := wireRows.Err(); err != nil {
		return t, fmt.Errorf("cross wires: %w", err)
	}

	bandRows, err := db.Query(`SELECT band, width_min, width_max FROM frame_bands ORDER BY band`)
	if err != nil {
		return t, fmt.Errorf("frame bands: %w", err)
	}
	defer bandRows.Close()
	bandIndex := make(map[int]int)
	for bandRows.Next() {
		var band int
		var fb FrameBand
		if err := bandRows.Scan(&band, &fb.WidthMin, &fb.WidthMax); err != nil {
			return t, fmt.Errorf("frame bands: %w", err)
		}
		bandIndex[band] = len(t.FrameBands)
		t.FrameBands = append(t.FrameBands, fb)
	}
	if err := bandRows.Err(); err != nil {
		return t, fmt.Errorf("frame bands: %w", err)
	}

	frameTierRows, err := db.Query(`SELECT band, area_max, price FROM frame_tiers ORDER BY band, area_max`)
	if err != nil {
		return t, fmt.Errorf("frame tiers: %w", err)
	}
	defer frameTierRows.Close()
	for frameTierRows.Next() {
		var band int
		var tier FrameTier
		if err := frameTierRows.Scan(&band, &tier.AreaMax, &tier.Price); err != nil {
			return t, fmt.Errorf("frame tiers: %w", err)
		}
		i, ok := bandIndex[band]
		if !ok {
			return t, fmt.Errorf("frame tiers: tier references unknown band %d", band)
		}
		t.FrameBands[i].Tiers = append(t.FrameBands[i].Tiers, tier)
	}
	if err := frameTierRows.Err(); err != nil {
		return t, fmt.Errorf("frame tiers: %w", err)
	}

	sleeveTierRows, err := db.Query(`
		SELECT area_from, area_to, standard, antimicrobial
		FROM sleeve_tiers
		ORDER BY area_from
	`)
	if err != nil {
		return t, fmt.Errorf("sleeve tiers: %w", err)
	}
	defer sleeveTierRows.Close()
	for sleeveTierRows.Next() {
		var tier SleeveTier
		if err := sleeveTierRows.Scan(&tier.AreaFrom, &tier.AreaTo, &tier.Standard, &tier.Antimicrobial); err != nil {
			return t, fmt.Errorf("sleeve tiers: %w", err)
		}
		t.SleeveTiers = append(t.SleeveTiers, tier)
	}
	if err := sleeveTierRows.Err(); err != nil {
		return t, fmt.Errorf("sleeve tiers: %w", err)
	}

	cartonRows, err := db.Query(`SELECT max_length, qty FROM sleeve_cartons ORDER BY max_length`)
	if err != nil {
		return t, fmt.Errorf("sleeve cartons: %w", err)
	}
	defer cartonRows.Close()
	for cartonRows.Next() {
		var ct SleeveCartonTier
		if err := cartonRows.Scan(&ct.MaxLength, &ct.Qty); err != nil {
			return t, fmt.Errorf("sleeve cartons: %w", err)
		}
		t.SleeveCartons = append(t.SleeveCartons, ct)
	}
	return t, cartonRows.Err()
}
