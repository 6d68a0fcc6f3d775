package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// newTestDB connects to the database named by the TEST_DB_* environment
// variables and runs migrations. Tests that need it are skipped when no
// test database is configured.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set; skipping database-backed tests")
	}

	cfg := &config.DatabaseConfig{
		Host:         host,
		Port:         envOr("TEST_DB_PORT", "5432"),
		User:         envOr("TEST_DB_USER", "postgres"),
		Password:     envOr("TEST_DB_PASSWORD", "postgres"),
		Name:         envOr("TEST_DB_NAME", "sps_dashboard_test"),
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(migrationsPath(t)); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	cleanTables(t, db)
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// migrationsPath resolves the migrations directory relative to this file.
func migrationsPath(t *testing.T) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
	return filepath.Join(projectRoot, "migrations")
}

func cleanTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	for _, stmt := range []string{
		`DELETE FROM year_data`,
		`DELETE FROM products`,
		`DELETE FROM user_lines`,
		`DELETE FROM lines`,
		`DELETE FROM global_settings`,
		`DELETE FROM users`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("cleanup %q failed: %v", stmt, err)
		}
	}
}

// seedLineGraph creates a line with one product and one year record.
func seedLineGraph(t *testing.T, repos *repository.Repositories) (*models.Line, *models.Product, *models.YearData) {
	t.Helper()
	ctx := context.Background()

	line := &models.Line{Name: "Assembly West", Slug: "assembly-west"}
	if err := repos.Line.Create(ctx, line); err != nil {
		t.Fatalf("Create line failed: %v", err)
	}

	product := &models.Product{Name: "NL AD6-1250A", LineID: &line.ID}
	if err := repos.Product.Create(ctx, product); err != nil {
		t.Fatalf("Create product failed: %v", err)
	}

	dt := 1519.13
	yd, err := repos.YearData.Upsert(ctx, &models.YearData{ProductID: product.ID, Year: 2024, DT: &dt})
	if err != nil {
		t.Fatalf("Upsert year data failed: %v", err)
	}
	return line, product, yd
}

func TestRestoreAtomicity(t *testing.T) {
	db := newTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	line, product, yd := seedLineGraph(t, repos)

	// Two snapshot lines sharing one id: the second insert violates the
	// primary key partway through the restore.
	snapshot := &models.BackupData{
		Lines: []models.BackupLine{
			{Line: models.Line{ID: 500, Name: "Restored A", Slug: "restored-a"}},
			{Line: models.Line{ID: 500, Name: "Restored B", Slug: "restored-b"}},
		},
	}

	_, err := repos.Backup.Restore(ctx, snapshot)
	if !apperr.Is(err, apperr.Transaction) {
		t.Fatalf("Expected Transaction error for duplicate-id restore, got %v", err)
	}

	// The whole transaction rolled back: nothing from the snapshot
	// persists and the pre-restore graph is still queryable.
	if restored, _ := repos.Line.GetByID(ctx, 500); restored != nil {
		t.Error("Failed restore must not leave snapshot rows behind")
	}
	gotLine, err := repos.Line.GetByID(ctx, line.ID)
	if err != nil || gotLine == nil {
		t.Fatalf("Pre-restore line lost: %v", err)
	}
	gotProduct, err := repos.Product.GetByID(ctx, product.ID)
	if err != nil || gotProduct == nil {
		t.Fatalf("Pre-restore product lost: %v", err)
	}
	records, err := repos.YearData.ListByProduct(ctx, product.ID)
	if err != nil || len(records) != 1 || records[0].ID != yd.ID {
		t.Fatalf("Pre-restore year data lost: %v (%d records)", err, len(records))
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	line, product, _ := seedLineGraph(t, repos)

	snapshot, err := repos.Backup.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	cleanTables(t, db)

	counts, err := repos.Backup.Restore(ctx, snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if counts.Lines != 1 || counts.Products != 1 || counts.YearData != 1 {
		t.Errorf("Unexpected counts: %+v", counts)
	}

	// Original ids survive the round trip.
	gotProduct, err := repos.Product.GetWithYearData(ctx, product.ID)
	if err != nil || gotProduct == nil {
		t.Fatalf("Restored product not found: %v", err)
	}
	if gotProduct.LineID == nil || *gotProduct.LineID != line.ID {
		t.Errorf("Restored product lost its line: %v", gotProduct.LineID)
	}
	if len(gotProduct.YearData) != 1 || gotProduct.YearData[0].Year != 2024 {
		t.Errorf("Restored year data wrong: %+v", gotProduct.YearData)
	}

	// Sequences were realigned: a fresh insert must not collide with a
	// restored id.
	next := &models.Line{Name: "Assembly East", Slug: "assembly-east"}
	if err := repos.Line.Create(ctx, next); err != nil {
		t.Fatalf("Insert after restore failed: %v", err)
	}
	if next.ID <= line.ID {
		t.Errorf("Sequence not realigned: new id %d <= restored id %d", next.ID, line.ID)
	}
}

func TestLineDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	line, product, _ := seedLineGraph(t, repos)

	if err := repos.Line.DeleteCascade(ctx, line.ID); err != nil {
		t.Fatalf("DeleteCascade failed: %v", err)
	}

	if got, _ := repos.Line.GetByID(ctx, line.ID); got != nil {
		t.Error("Line still present after cascade delete")
	}
	if got, _ := repos.Product.GetByID(ctx, product.ID); got != nil {
		t.Error("Product still present after cascade delete")
	}
	records, err := repos.YearData.ListByProduct(ctx, product.ID)
	if err != nil || len(records) != 0 {
		t.Errorf("Year data still present after cascade delete: %v (%d records)", err, len(records))
	}

	// Follow-up mutations against the deleted rows report NotFound.
	if err := repos.YearData.Delete(ctx, product.ID, 2024); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound deleting cascaded year data, got %v", err)
	}
	if err := repos.Line.DeleteCascade(ctx, line.ID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("Expected NotFound deleting the line twice, got %v", err)
	}
}

func TestProductListScopedToLine(t *testing.T) {
	db := newTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	line, product, _ := seedLineGraph(t, repos)

	other := &models.Line{Name: "Assembly East", Slug: "assembly-east"}
	if err := repos.Line.Create(ctx, other); err != nil {
		t.Fatalf("Create line failed: %v", err)
	}
	otherProduct := &models.Product{Name: "XE TT6-1250A", LineID: &other.ID}
	if err := repos.Product.Create(ctx, otherProduct); err != nil {
		t.Fatalf("Create product failed: %v", err)
	}
	if _, err := repos.YearData.Upsert(ctx, &models.YearData{ProductID: otherProduct.ID, Year: 2025}); err != nil {
		t.Fatalf("Upsert year data failed: %v", err)
	}

	products, err := repos.Product.List(ctx, &line.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != product.ID {
		t.Fatalf("Expected only the scoped product, got %d", len(products))
	}
	if len(products[0].YearData) != 1 || products[0].YearData[0].Year != 2024 {
		t.Errorf("Scoped product carries wrong year data: %+v", products[0].YearData)
	}
}
