package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/models"
)

func TestBackupService_Export(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	env.backups.SnapshotFunc = func(ctx context.Context) (*models.BackupData, error) {
		return &models.BackupData{
			Lines:    []models.BackupLine{{Line: models.Line{ID: 1, Name: "Assembly West", Slug: "assembly-west"}}},
			Products: []models.Product{{ID: 1, Name: "NL AD6-1250A"}},
		}, nil
	}

	backup, err := env.services.Backup.Export(ctx, "admin")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if backup.Version != models.BackupVersion {
		t.Errorf("Expected version %s, got %s", models.BackupVersion, backup.Version)
	}
	if backup.ExportedBy != "admin" {
		t.Errorf("Expected exportedBy admin, got %s", backup.ExportedBy)
	}
	if backup.ExportDate.IsZero() {
		t.Error("Expected a non-zero export date")
	}
	if len(backup.Data.Lines) != 1 || len(backup.Data.Products) != 1 {
		t.Errorf("Snapshot data not carried through: %+v", backup.Data)
	}
}

func TestBackupService_RestoreRejectsEmptySnapshot(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	_, err := env.services.Backup.Restore(ctx, nil)
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("Expected Validation for nil backup, got %v", err)
	}

	_, err = env.services.Backup.Restore(ctx, &models.Backup{Version: models.BackupVersion})
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("Expected Validation for empty data, got %v", err)
	}
	if env.backups.RestoredData != nil {
		t.Error("Rejected snapshots must not reach the repository")
	}
}

func TestBackupService_RestorePassesSnapshotThrough(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	lineID := int64(1)
	backup := &models.Backup{
		Version: models.BackupVersion,
		Data: models.BackupData{
			Lines:     []models.BackupLine{{Line: models.Line{ID: lineID, Name: "Assembly West", Slug: "assembly-west"}}},
			Products:  []models.Product{{ID: 1, Name: "NL AD6-1250A", LineID: &lineID}},
			YearData:  []models.YearData{{ID: 1, ProductID: 1, Year: 2024}},
			UserLines: []models.UserLine{{UserID: 2, LineID: lineID}},
		},
	}

	counts, err := env.services.Backup.Restore(ctx, backup)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if counts.Lines != 1 || counts.Products != 1 || counts.YearData != 1 || counts.UserLines != 1 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
	if env.backups.RestoredData == nil {
		t.Fatal("Snapshot did not reach the repository")
	}
	// Users are part of the snapshot document but never part of a restore.
	if len(env.backups.RestoredData.Users) != 0 {
		t.Error("Restore input should not fabricate users")
	}
}

func TestBackupService_RestoreFailureSurfacesTransaction(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	env.backups.RestoreFunc = func(ctx context.Context, data *models.BackupData) (models.RestoreCounts, error) {
		return models.RestoreCounts{}, apperr.Wrap(apperr.Transaction, "restore aborted", context.DeadlineExceeded)
	}

	backup := &models.Backup{
		Version: models.BackupVersion,
		Data: models.BackupData{
			Lines: []models.BackupLine{{Line: models.Line{ID: 1, Name: "Assembly West", Slug: "assembly-west"}}},
		},
	}

	counts, err := env.services.Backup.Restore(ctx, backup)
	if !apperr.Is(err, apperr.Transaction) {
		t.Fatalf("Expected Transaction error from aborted restore, got %v", err)
	}
	if counts != (models.RestoreCounts{}) {
		t.Errorf("Aborted restore must report zero counts, got %+v", counts)
	}
}

func buildWorkbook(t *testing.T, includeLines bool) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()

	if includeLines {
		f.SetSheetName("Sheet1", "Lines")
		f.SetSheetRow("Lines", "A1", &[]interface{}{"Name", "Slug", "Header Image"})
		f.SetSheetRow("Lines", "A2", &[]interface{}{"Assembly West", "assembly-west", "/uploads/west.png"})
		f.SetSheetRow("Lines", "A3", &[]interface{}{"Assembly East", "assembly-east", "N/A"})
	} else {
		f.SetSheetName("Sheet1", "Unrelated")
	}

	f.NewSheet("Products & Year Data")
	header := []interface{}{"Product Name", "Line", "Year", "DT", "UT", "NVA", "KD (%)", "KE (%)", "KER (%)", "KSR (%)", "OT", "TSR"}
	f.SetSheetRow("Products & Year Data", "A1", &header)
	f.SetSheetRow("Products & Year Data", "A2", &[]interface{}{
		"NL AD6-1250A", "Assembly West", 2024, 1519.13, 1359.65, 159.48, 89.5, 67.3, 72.3, "N/A", 2100.31, "290382,902",
	})
	// Unparsable durations degrade to zero, the row still imports.
	f.SetSheetRow("Products & Year Data", "A3", &[]interface{}{
		"NL AD6-2500A", "Assembly West", 2024, "n/a", "", "", "N/A", "", "", "", "", "N/A",
	})
	// Unparsable year, row is skipped before the repository sees it.
	f.SetSheetRow("Products & Year Data", "A4", &[]interface{}{
		"XE TT6-1250A", "Assembly West", "not-a-year", 1, 2, 3, 4, 5, 6, 7, 8, "x",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf
}

func TestBackupService_ImportExcel(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	counts, err := env.services.Backup.ImportExcel(ctx, buildWorkbook(t, true))
	if err != nil {
		t.Fatalf("ImportExcel failed: %v", err)
	}

	// Attempted counts, not applied counts.
	if counts.Lines != 2 {
		t.Errorf("Expected 2 attempted lines, got %d", counts.Lines)
	}
	if counts.Products != 3 {
		t.Errorf("Expected 3 attempted product rows, got %d", counts.Products)
	}
	if counts.SkippedRows != 1 {
		t.Errorf("Expected 1 skipped row, got %d", counts.SkippedRows)
	}

	if env.backups.ImportWorkbookCalls != 1 {
		t.Fatalf("Expected 1 repository call, got %d", env.backups.ImportWorkbookCalls)
	}
	if len(env.backups.ImportedLines) != 2 {
		t.Fatalf("Expected 2 parsed lines, got %d", len(env.backups.ImportedLines))
	}
	if env.backups.ImportedLines[1].HeaderImageURL != nil {
		t.Error("N/A header image should parse to absent")
	}

	if len(env.backups.ImportedRows) != 2 {
		t.Fatalf("Expected 2 parsed product rows, got %d", len(env.backups.ImportedRows))
	}
	first := env.backups.ImportedRows[0]
	if first.DT != 1519.13 {
		t.Errorf("Expected DT 1519.13, got %v", first.DT)
	}
	if first.KD == nil || *first.KD != 0.895 {
		t.Errorf("Expected KD 0.895, got %v", first.KD)
	}
	if first.KSR != nil {
		t.Error("N/A percentage should parse to absent")
	}
	if first.TSR == nil || *first.TSR != "290382,902" {
		t.Errorf("TSR should be carried verbatim, got %v", first.TSR)
	}

	second := env.backups.ImportedRows[1]
	if second.DT != 0 || second.UT != 0 {
		t.Errorf("Unparsable durations should default to zero, got DT=%v UT=%v", second.DT, second.UT)
	}
	if second.KD != nil {
		t.Error("Unparsable percentage should parse to absent")
	}
}

func TestBackupService_ImportExcelMissingSheet(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	_, err := env.services.Backup.ImportExcel(ctx, buildWorkbook(t, false))
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("Expected Validation for missing Lines sheet, got %v", err)
	}
	if env.backups.ImportWorkbookCalls != 0 {
		t.Error("A missing sheet must fail before any write")
	}
}

func TestBackupService_ImportExcelNotAWorkbook(t *testing.T) {
	env := setupServices()
	ctx := context.Background()

	_, err := env.services.Backup.ImportExcel(ctx, bytes.NewBufferString("this is not a workbook"))
	if !apperr.Is(err, apperr.Validation) {
		t.Errorf("Expected Validation for unreadable workbook, got %v", err)
	}
}
