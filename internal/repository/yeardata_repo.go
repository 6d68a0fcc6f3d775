package repository

import (
	"context"
	"time"

	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
)

// yearDataRepo is the concrete implementation of YearDataRepository
type yearDataRepo struct {
	db *database.DB
}

// NewYearDataRepo creates a new year data repository
func NewYearDataRepo(db *database.DB) YearDataRepository {
	return &yearDataRepo{db: db}
}

// Upsert inserts or updates the record for (product, year). Applying the
// same payload twice yields one row with the final values.
func (r *yearDataRepo) Upsert(ctx context.Context, yd *models.YearData) (*models.YearData, error) {
	query := `
		INSERT INTO year_data (product_id, year, dt, ut, nva, kd, ke, ker, ksr, otr, tsr, created_at, updated_at)
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
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		yd.ProductID, yd.Year, yd.DT, yd.UT, yd.NVA,
		yd.KD, yd.KE, yd.KER, yd.KSR, yd.OTR, yd.TSR, now,
	).Scan(&yd.ID, &yd.CreatedAt, &yd.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return yd, nil
}

// Delete removes the record for (product, year)
func (r *yearDataRepo) Delete(ctx context.Context, productID int64, year int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM year_data WHERE product_id = $1 AND year = $2`,
		productID, year,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListByProduct returns the records for one product ordered by year
func (r *yearDataRepo) ListByProduct(ctx context.Context, productID int64) ([]models.YearData, error) {
	query := `
		SELECT id, product_id, year, dt, ut, nva, kd, ke, ker, ksr, otr, tsr, created_at, updated_at
		FROM year_data WHERE product_id = $1 ORDER BY year
	`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.YearData
	for rows.Next() {
		var yd models.YearData
		err := rows.Scan(
			&yd.ID, &yd.ProductID, &yd.Year, &yd.DT, &yd.UT, &yd.NVA,
			&yd.KD, &yd.KE, &yd.KER, &yd.KSR, &yd.OTR, &yd.TSR,
			&yd.CreatedAt, &yd.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, yd)
	}
	return records, rows.Err()
}
