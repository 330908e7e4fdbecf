package seed

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/natfilters/natpricing/internal/migrations"
)

func newSeedTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := migrations.Up(db, "../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestRunImportsAllReferenceTables(t *testing.T) {
	db := newSeedTestDB(t)

	stats, err := Run(db, "../../data")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.Tables != len(tableSpecs) {
		t.Fatalf("expected %d tables imported, got %d", len(tableSpecs), stats.Tables)
	}
	if stats.Rows == 0 {
		t.Fatal("expected rows to be imported")
	}

	var products int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pleat_products`).Scan(&products); err != nil {
		t.Fatalf("count pleat products: %v", err)
	}
	if products != 7 {
		t.Fatalf("expected 7 pleat products, got %d", products)
	}

	var prefix string
	err = db.QueryRow(`SELECT prefix FROM pleat_products WHERE name = 'Tri-Pleat MERV 8'`).Scan(&prefix)
	if err != nil {
		t.Fatalf("query pleat product: %v", err)
	}
	if prefix != "11204" {
		t.Fatalf("expected prefix 11204, got %s", prefix)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := newSeedTestDB(t)

	first, err := Run(db, "../../data")
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	second, err := Run(db, "../../data")
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical stats across runs, got %+v then %+v", first, second)
	}

	var tiers int
	if err := db.QueryRow(`SELECT COUNT(*) FROM link_tiers`).Scan(&tiers); err != nil {
		t.Fatalf("count link tiers: %v", err)
	}
	if tiers != 7 {
		t.Fatalf("expected 7 link tiers after reseed, got %d", tiers)
	}
}

func TestRunRejectsBadHeaderAndRollsBack(t *testing.T) {
	db := newSeedTestDB(t)

	if _, err := Run(db, "../../data"); err != nil {
		t.Fatalf("initial Run returned error: %v", err)
	}

	dir := copyDataDir(t, "../../data")
	badHeader := "calculator,sixteenths,wrong,literal\npleats,2,A,.125\n"
	if err := os.WriteFile(filepath.Join(dir, "fraction_codes.csv"), []byte(badHeader), 0o644); err != nil {
		t.Fatalf("failed to write corrupt csv: %v", err)
	}

	if _, err := Run(db, dir); err == nil {
		t.Fatal("expected an error for a corrupt header")
	}

	// The failed run must leave the previous import untouched.
	var codes int
	if err := db.QueryRow(`SELECT COUNT(*) FROM fraction_codes`).Scan(&codes); err != nil {
		t.Fatalf("count fraction codes: %v", err)
	}
	if codes != 28 {
		t.Fatalf("expected 28 fraction codes to survive the rollback, got %d", codes)
	}
}

func copyDataDir(t *testing.T, src string) string {
	t.Helper()

	dir := t.TempDir()
	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("failed to read data dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", e.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644); err != nil {
			t.Fatalf("failed to copy %s: %v", e.Name(), err)
		}
	}
	return dir
}
