package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
)

// backupRepo implements the snapshot, restore and workbook import
// operations. Restore and ImportWorkbook are the only multi-statement
// transactions in the system; both are all-or-nothing.
type backupRepo struct {
	db *database.DB
}

// NewBackupRepo creates a new backup repository
func NewBackupRepo(db *database.DB) BackupRepository {
	return &backupRepo{db: db}
}

// Snapshot reads the full relational graph. Pure read; credential hashes
// are excluded from the user records.
func (r *backupRepo) Snapshot(ctx context.Context) (*models.BackupData, error) {
	data := &models.BackupData{}

	lines, err := NewLineRepo(r.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}

	userLines, err := r.listUserLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read grants: %w", err)
	}

	grantsByLine := make(map[int64][]models.UserLine)
	for _, ul := range userLines {
		grantsByLine[ul.LineID] = append(grantsByLine[ul.LineID], ul)
	}
	for _, line := range lines {
		bl := models.BackupLine{Line: *line, AssignedUsers: grantsByLine[line.ID]}
		if bl.AssignedUsers == nil {
			bl.AssignedUsers = []models.UserLine{}
		}
		data.Lines = append(data.Lines, bl)
	}
	data.UserLines = userLines

	products, err := NewProductRepo(r.db).List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	for _, p := range products {
		data.Products = append(data.Products, *p)
		data.YearData = append(data.YearData, p.YearData...)
	}

	users, err := NewUserRepo(r.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	for _, u := range users {
		data.Users = append(data.Users, models.BackupUser{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}

	settings, err := NewSettingsRepo(r.db).GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	data.GlobalSettings = []models.GlobalSettings{*settings}

	return data, nil
}

func (r *backupRepo) listUserLines(ctx context.Context) ([]models.UserLine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, line_id FROM user_lines ORDER BY user_id, line_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []models.UserLine
	for rows.Next() {
		var ul models.UserLine
		if err := rows.Scan(&ul.UserID, &ul.LineID); err != nil {
			return nil, err
		}
		grants = append(grants, ul)
	}
	return grants, rows.Err()
}

// Restore destroys and recreates the Line/Product/YearData/GlobalSettings
// graph from a snapshot, preserving original ids. Users and their
// credentials are never touched. Any failure aborts the whole transaction.
func (r *backupRepo) Restore(ctx context.Context, data *models.BackupData) (models.RestoreCounts, error) {
	var counts models.RestoreCounts

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// Children before parents to satisfy foreign keys.
		for _, stmt := range []string{
			`DELETE FROM year_data`,
			`DELETE FROM products`,
			`DELETE FROM user_lines`,
			`DELETE FROM lines`,
			`DELETE FROM global_settings`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
		}

		// The settings table pins id to 1, so the snapshot row is
		// normalized onto that key.
		if len(data.GlobalSettings) > 0 {
			gs := data.GlobalSettings[0]
			years := make([]int64, len(gs.ActiveYears))
			for i, y := range gs.ActiveYears {
				years[i] = int64(y)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO global_settings (id, header_image_url, active_years, updated_at) VALUES (1, $1, $2, $3)`,
				gs.HeaderImageURL, pq.Array(years), time.Now(),
			)
			if err != nil {
				return fmt.Errorf("failed to restore settings: %w", err)
			}
		}

		for _, line := range data.Lines {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO lines (id, name, slug, header_image_url, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				line.ID, line.Name, line.Slug, line.HeaderImageURL, line.CreatedAt, line.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to restore line %q: %w", line.Name, err)
			}
			counts.Lines++
		}

		for _, product := range data.Products {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO products (id, name, image, line_id, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				product.ID, product.Name, product.Image, product.LineID, product.CreatedAt, product.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to restore product %q: %w", product.Name, err)
			}
			counts.Products++
		}

		for _, yd := range data.YearData {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO year_data (id, product_id, year, dt, ut, nva, kd, ke, ker, ksr, otr, tsr, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
				yd.ID, yd.ProductID, yd.Year, yd.DT, yd.UT, yd.NVA,
				yd.KD, yd.KE, yd.KER, yd.KSR, yd.OTR, yd.TSR, yd.CreatedAt, yd.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to restore year data for product %d year %d: %w", yd.ProductID, yd.Year, err)
			}
			counts.YearData++
		}

		for _, ul := range data.UserLines {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO user_lines (user_id, line_id) VALUES ($1, $2)`,
				ul.UserID, ul.LineID,
			)
			if err != nil {
				return fmt.Errorf("failed to restore grant (%d, %d): %w", ul.UserID, ul.LineID, err)
			}
			counts.UserLines++
		}

		// Id-preserving inserts bypass the serials; realign them.
		for _, table := range []string{"lines", "products", "year_data"} {
			query := fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
				table, table,
			)
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("failed to reset %s sequence: %w", table, err)
			}
		}

		return nil
	})
	if err != nil {
		return models.RestoreCounts{}, apperr.Wrap(apperr.Transaction, "restore aborted", err)
	}

	return counts, nil
}

// ImportWorkbook applies parsed spreadsheet rows inside one transaction.
// Line rows upsert by slug; product rows resolve their line by display name
// and degrade to a skip when it cannot be found, because spreadsheets are
// hand-edited. Returned counts are attempted rows; skipped product names
// come back separately for logging.
func (r *backupRepo) ImportWorkbook(ctx context.Context, lines []models.ExcelLineRow, rows []models.ExcelProductRow) (models.ExcelImportCounts, []string, error) {
	counts := models.ExcelImportCounts{Lines: len(lines), Products: len(rows)}
	var skipped []string

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		now := time.Now()

		for _, row := range lines {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO lines (name, slug, header_image_url, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $4)
				 ON CONFLICT (slug) DO UPDATE SET
					name = EXCLUDED.name,
					header_image_url = EXCLUDED.header_image_url,
					updated_at = EXCLUDED.updated_at`,
				row.Name, row.Slug, row.HeaderImageURL, now,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert line %q: %w", row.Slug, err)
			}
		}

		for _, row := range rows {
			var lineID int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM lines WHERE name = $1`, row.LineName,
			).Scan(&lineID)
			if err == sql.ErrNoRows {
				skipped = append(skipped, row.ProductName)
				counts.SkippedRows++
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to resolve line %q: %w", row.LineName, err)
			}

			var productID int64
			err = tx.QueryRowContext(ctx,
				`INSERT INTO products (name, line_id, created_at, updated_at)
				 VALUES ($1, $2, $3, $3)
				 ON CONFLICT (name) DO UPDATE SET
					line_id = EXCLUDED.line_id,
					updated_at = EXCLUDED.updated_at
				 RETURNING id`,
				row.ProductName, lineID, now,
			).Scan(&productID)
			if err != nil {
				return fmt.Errorf("failed to upsert product %q: %w", row.ProductName, err)
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO year_data (product_id, year, dt, ut, nva, kd, ke, ker, ksr, otr, tsr, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
				 ON CONFLICT (product_id, year) DO UPDATE SET
					dt = EXCLUDED.dt,
					ut = EXCLUDED.ut,
					nva = EXCLUDED.nva,
					kd = EXCLUDED.kd,
					ke = EXCLUDED.ke,
					ker = EXCLUDED.ker,
					ksr = EXCLUDED.ksr,
					otr = EXCLUDED.otr,
					tsr = EXCLUDED.tsr,
					updated_at = EXCLUDED.updated_at`,
				productID, row.Year, row.DT, row.UT, row.NVA,
				row.KD, row.KE, row.KER, row.KSR, row.OTR, row.TSR, now,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert year data for %q year %d: %w", row.ProductName, row.Year, err)
			}
		}

		return nil
	})
	if err != nil {
		return models.ExcelImportCounts{}, nil, apperr.Wrap(apperr.Transaction, "workbook import aborted", err)
	}

	return counts, skipped, nil
}
