package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestListingsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_listings_and_bids")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS listings",
		"CHECK (current_price >= starting_price)",
		"images          text[]        NOT NULL DEFAULT '{}'",
		"FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS listings",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStockAndVerificationMigrations(t *testing.T) {
	stock := readMigration(t, "create_stock_items")
	for _, sub := range []string{"CHECK (price >= 0)", "CHECK (stock_count >= 0)", "low_stock_threshold  integer,"} {
		if !strings.Contains(stock, sub) {
			t.Errorf("stock migration missing %q", sub)
		}
	}
	verification := readMigration(t, "create_verification_requests")
	if !strings.Contains(verification, "WHERE status = 'PENDING'") {
		t.Errorf("verification migration should limit users to one pending request")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	path, err := CreateSQLMigration(dir, "Add Listing Watchers!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20260203040506_add_listing_watchers.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "Add Listing Watchers!"); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected empty-name error")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}
}

func TestValidateDirLintsAnnotations(t *testing.T) {
	cases := map[string]string{
		"missing down": "-- +goose Up\nSELECT 1;\n",
		"down first":   "-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n",
		"unterminated": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		"stray end":    "-- +goose Up\n-- +goose StatementEnd\n-- +goose Down\n",
	}
	for name, body := range cases {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "20260101000000_case.sql"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ValidateDir(dir); err == nil {
			t.Fatalf("%s: expected lint error", name)
		}
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := ParseVersion("20260203040506"); err != nil || v != 20260203040506 {
		t.Fatalf("got %d, %v", v, err)
	}
	for _, raw := range []string{"", "latest", "-1"} {
		if _, err := ParseVersion(raw); err == nil {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestRunRequiresHandleAndDir(t *testing.T) {
	if err := Run(context.Background(), nil, "migrations", "up"); !errors.Is(err, ErrNoDB) {
		t.Fatalf("expected ErrNoDB, got %v", err)
	}
	if _, err := CreateSQLMigration("", "x"); !errors.Is(err, ErrNoDir) {
		t.Fatalf("expected ErrNoDir, got %v", err)
	}
}
