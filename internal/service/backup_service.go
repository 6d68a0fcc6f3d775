package service

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// Workbook sheet names required by the spreadsheet importer.
const (
	sheetLines    = "Lines"
	sheetProducts = "Products & Year Data"
)

// backupService is the concrete implementation of BackupService
type backupService struct {
	backups repository.BackupRepository
	log     zerolog.Logger
}

// newBackupService creates a new BackupService
func newBackupService(backups repository.BackupRepository, log zerolog.Logger) *backupService {
	return &backupService{
		backups: backups,
		log:     log.With().Str("service", "backup").Logger(),
	}
}

// Export produces the snapshot document. Pure read.
func (s *backupService) Export(ctx context.Context, exportedBy string) (*models.Backup, error) {
	data, err := s.backups.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("exported_by", exportedBy).
		Int("lines", len(data.Lines)).
		Int("products", len(data.Products)).
		Int("year_data", len(data.YearData)).
		Msg("Backup exported")

	return &models.Backup{
		ExportDate: time.Now().UTC(),
		ExportedBy: exportedBy,
		Version:    models.BackupVersion,
		Data:       *data,
	}, nil
}

// Restore replaces the Line/Product/YearData/GlobalSettings graph with the
// snapshot's contents in one all-or-nothing transaction. Users survive by
// design.
func (s *backupService) Restore(ctx context.Context, backup *models.Backup) (models.RestoreCounts, error) {
	if backup == nil || (backup.Data.Lines == nil && backup.Data.Products == nil &&
		backup.Data.YearData == nil && backup.Data.UserLines == nil && backup.Data.GlobalSettings == nil) {
		return models.RestoreCounts{}, apperr.New(apperr.Validation, "invalid backup format")
	}

	counts, err := s.backups.Restore(ctx, &backup.Data)
	if err != nil {
		return models.RestoreCounts{}, err
	}

	s.log.Info().
		Int("lines", counts.Lines).
		Int("products", counts.Products).
		Int("year_data", counts.YearData).
		Int("user_lines", counts.UserLines).
		Msg("Backup restored")
	return counts, nil
}

// ImportExcel parses the workbook and applies it as an incremental upsert
// inside one transaction. A malformed or partially-matching row degrades to
// a skip, not an abort; a missing sheet is fatal before any write.
func (s *backupService) ImportExcel(ctx context.Context, workbook io.Reader) (models.ExcelImportCounts, error) {
	f, err := excelize.OpenReader(workbook)
	if err != nil {
		return models.ExcelImportCounts{}, apperr.Wrap(apperr.Validation, "unreadable workbook", err)
	}
	defer f.Close()

	lineRows, attemptedLines, err := s.parseLinesSheet(f)
	if err != nil {
		return models.ExcelImportCounts{}, err
	}
	productRows, attemptedProducts, preSkipped, err := s.parseProductsSheet(f)
	if err != nil {
		return models.ExcelImportCounts{}, err
	}

	counts, skippedNames, err := s.backups.ImportWorkbook(ctx, lineRows, productRows)
	if err != nil {
		return models.ExcelImportCounts{}, err
	}

	for _, name := range skippedNames {
		s.log.Warn().Str("product", name).Msg("Line not found for product row, skipped")
	}

	// Attempted row counts are reported for compatibility; skips are
	// surfaced separately.
	counts.Lines = attemptedLines
	counts.Products = attemptedProducts
	counts.SkippedRows += preSkipped

	s.log.Info().
		Int("lines", counts.Lines).
		Int("products", counts.Products).
		Int("skipped", counts.SkippedRows).
		Msg("Excel import completed")
	return counts, nil
}

// parseLinesSheet reads the "Lines" sheet (Name, Slug, Header Image).
func (s *backupService) parseLinesSheet(f *excelize.File) ([]models.ExcelLineRow, int, error) {
	rows, err := f.GetRows(sheetLines)
	if err != nil {
		return nil, 0, apperr.Newf(apperr.Validation, "invalid Excel format, missing required sheet %q", sheetLines)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	cols := headerIndex(rows[0])
	var parsed []models.ExcelLineRow
	attempted := 0
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		attempted++

		name := cell(row, cols.at("Name"))
		slug := cell(row, cols.at("Slug"))
		if name == "" || slug == "" {
			continue
		}

		var headerImage *string
		if v := cell(row, cols.at("Header Image")); v != "" && v != naSentinel {
			headerImage = &v
		}
		parsed = append(parsed, models.ExcelLineRow{Name: name, Slug: slug, HeaderImageURL: headerImage})
	}
	return parsed, attempted, nil
}

// parseProductsSheet reads the "Products & Year Data" sheet.
func (s *backupService) parseProductsSheet(f *excelize.File) ([]models.ExcelProductRow, int, int, error) {
	rows, err := f.GetRows(sheetProducts)
	if err != nil {
		return nil, 0, 0, apperr.Newf(apperr.Validation, "invalid Excel format, missing required sheet %q", sheetProducts)
	}
	if len(rows) == 0 {
		return nil, 0, 0, nil
	}

	cols := headerIndex(rows[0])
	var parsed []models.ExcelProductRow
	attempted, skipped := 0, 0
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		attempted++

		name := cell(row, cols.at("Product Name"))
		lineName := cell(row, cols.at("Line"))
		yearText := cell(row, cols.at("Year"))
		if name == "" || lineName == "" || yearText == "" {
			skipped++
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearText))
		if err != nil {
			s.log.Warn().Int("row", i+2).Str("year", yearText).Msg("Unparsable year, row skipped")
			skipped++
			continue
		}

		parsed = append(parsed, models.ExcelProductRow{
			ProductName: name,
			LineName:    lineName,
			Year:        year,
			DT:          parseDuration(cell(row, cols.at("DT"))),
			UT:          parseDuration(cell(row, cols.at("UT"))),
			NVA:         parseDuration(cell(row, cols.at("NVA"))),
			OTR:         parseDuration(cell(row, cols.at("OT"))),
			KD:          parsePercent(cell(row, cols.at("KD (%)"))),
			KE:          parsePercent(cell(row, cols.at("KE (%)"))),
			KER:         parsePercent(cell(row, cols.at("KER (%)"))),
			KSR:         parsePercent(cell(row, cols.at("KSR (%)"))),
			TSR:         parseTSR(cell(row, cols.at("TSR"))),
		})
	}
	return parsed, attempted, skipped, nil
}

// columnIndex maps header names to column positions. Lookups for headers
// absent from the sheet return -1, which cell treats as an empty value.
type columnIndex map[string]int

func headerIndex(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func (c columnIndex) at(name string) int {
	if idx, ok := c[name]; ok {
		return idx
	}
	return -1
}

// cell returns the trimmed value at idx, tolerating ragged rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
