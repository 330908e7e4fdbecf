// Package seed loads the pricing reference data out of the CSV files the
// sales team maintains and into the database. The CSVs are the source of
// truth: each run replaces a table's contents wholesale, so re-running after
// a data update converges on the same state.
package seed

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// tableSpec binds one CSV file to its database table. Column order in the
// CSV header must match columns exactly.
type tableSpec struct {
	file    string
	table   string
	columns []string
}

var tableSpecs = []tableSpec{
	{"fraction_codes.csv", "fraction_codes", []string{"calculator", "sixteenths", "code", "literal"}},

	{"pleat_products.csv", "pleat_products", []string{"name", "prefix"}},
	{"pleat_thresholds.csv", "pleat_thresholds", []string{"depth", "std_width", "std_length", "oversize_width", "oversize_length"}},
	{"pleat_overrides.csv", "pleat_overrides", []string{"tbl", "dim_key", "message"}},
	{"pleat_override_a_prefixes.csv", "pleat_override_a_prefixes", []string{"prefix"}},
	{"pleat_price_rows.csv", "pleat_price_rows", []string{
		"prefix", "area_from", "area_to",
		"c1_update", "c2_update", "c3_update",
		"c1_double", "c2_double", "c3_double",
		"c1_triple", "c2_triple", "c3_triple",
	}},

	{"panel_families.csv", "panel_families", []string{"name", "prefix", "max_height"}},
	{"panel_rules.csv", "panel_rules", []string{"id", "no_antimicrobial", "default_max_height", "max_width", "min_dimension"}},
	{"panel_fixed_overrides.csv", "panel_fixed_overrides", []string{"dim_key", "value"}},
	{"panel_custom_rows.csv", "panel_custom_rows", []string{"position", "type", "height_rule", "width_rule", "area_from", "area_to", "price", "at_price"}},
	{"link_tiers.csv", "link_tiers", []string{"position", "length_max", "button_panels"}},

	{"pad_products.csv", "pad_products", []string{"name", "prefix", "min_width", "max_width", "min_length", "max_length", "carton_qty"}},
	{"pad_width_caps.csv", "pad_width_caps", []string{"prefix", "max_width"}},
	{"pad_at_prefixes.csv", "pad_at_prefixes", []string{"prefix"}},
	{"pad_exceptions.csv", "pad_exceptions", []string{"part_key", "message"}},
	{"pad_carton_under26.csv", "pad_carton_under26", []string{"prefix", "qty"}},
	{"pad_carton_tiers.csv", "pad_carton_tiers", []string{"max_length", "qty"}},
	{"pad_price_tiers.csv", "pad_price_tiers", []string{"prefix", "area_from", "area_to", "standard", "antimicrobial"}},

	{"sleeve_products.csv", "sleeve_products", []string{"name", "prefix", "options", "min_width", "max_width", "min_length", "max_length"}},
	{"sleeve_rules.csv", "sleeve_rules", []string{"id", "frame_prefix"}},
	{"cross_wires.csv", "cross_wires", []string{"max_dimension", "wire_count"}},
	{"frame_bands.csv", "frame_bands", []string{"band", "width_min", "width_max"}},
	{"frame_tiers.csv", "frame_tiers", []string{"band", "area_max", "price"}},
	{"sleeve_tiers.csv", "sleeve_tiers", []string{"area_from", "area_to", "standard", "antimicrobial"}},
	{"sleeve_cartons.csv", "sleeve_cartons", []string{"max_length", "qty"}},
}

// Stats contains seed operation counters.
type Stats struct {
	Tables int
	Rows   int
}

// Run imports every reference CSV found under dataDir. The whole import runs
// in one transaction, so a bad file leaves the previous data intact.
func Run(db *sql.DB, dataDir string) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, spec := range tableSpecs {
		n, err := importTable(tx, dataDir, spec)
		if err != nil {
			_ = tx.Rollback()
			return Stats{}, fmt.Errorf("import %s: %w", spec.file, err)
		}
		stats.Tables++
		stats.Rows += n
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func importTable(tx *sql.Tx, dataDir string, spec tableSpec) (int, error) {
	f, err := os.Open(filepath.Join(dataDir, spec.file))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, spec.columns); err != nil {
		return 0, err
	}

	if _, err := tx.Exec("DELETE FROM " + spec.table); err != nil {
		return 0, fmt.Errorf("clear table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(spec.columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		spec.table, strings.Join(spec.columns, ", "), placeholders,
	))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row %d: %w", count+2, err)
		}

		args := make([]any, len(record))
		for i, v := range record {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", count+2, err)
		}
		count++
	}

	return count, nil
}

func checkHeader(header, want []string) error {
	if len(header) != len(want) {
		return fmt.Errorf("header has %d columns, want %d", len(header), len(want))
	}
	for i := range want {
		if strings.TrimSpace(header[i]) != want[i] {
			return fmt.Errorf("header column %d is %q, want %q", i+1, header[i], want[i])
		}
	}
	return nil
}
