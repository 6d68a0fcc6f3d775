package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
)

// productRepo is the concrete implementation of ProductRepository
type productRepo struct {
	db *database.DB
}

// NewProductRepo creates a new product repository
func NewProductRepo(db *database.DB) ProductRepository {
	return &productRepo{db: db}
}

// Create inserts a new product and fills in the generated id
func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, image, line_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Image, product.LineID, now,
	).Scan(&product.ID)
	return mapError(err)
}

// GetByID retrieves a product by ID
func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT id, name, image, line_id, created_at, updated_at FROM products WHERE id = $1`

	var product models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Image, &product.LineID,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetWithYearData retrieves a product together with its year records
func (r *productRepo) GetWithYearData(ctx context.Context, id int64) (*models.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	yearData, err := NewYearDataRepo(r.db).ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.YearData = yearData
	return product, nil
}

// List retrieves products, optionally filtered to one line, with year data
// embedded for dashboard rendering
func (r *productRepo) List(ctx context.Context, lineID *int64) ([]*models.Product, error) {
	query := `SELECT id, name, image, line_id, created_at, updated_at FROM products`
	var args []any
	if lineID != nil {
		query += ` WHERE line_id = $1`
		args = append(args, *lineID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	byID := make(map[int64]*models.Product)
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID, &product.Name, &product.Image, &product.LineID,
			&product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
		byID[product.ID] = &product
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return products, nil
	}

	// Attach year data in a second pass rather than per-product queries,
	// scoped to the products just selected.
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	ydQuery := `
		SELECT id, product_id, year, dt, ut, nva, kd, ke, ker, ksr, otr, tsr, created_at, updated_at
		FROM year_data WHERE product_id = ANY($1) ORDER BY product_id, year
	`
	ydRows, err := r.db.QueryContext(ctx, ydQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer ydRows.Close()

	for ydRows.Next() {
		var yd models.YearData
		err := ydRows.Scan(
			&yd.ID, &yd.ProductID, &yd.Year, &yd.DT, &yd.UT, &yd.NVA,
			&yd.KD, &yd.KE, &yd.KER, &yd.KSR, &yd.OTR, &yd.TSR,
			&yd.CreatedAt, &yd.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if p, ok := byID[yd.ProductID]; ok {
			p.YearData = append(p.YearData, yd)
		}
	}
	return products, ydRows.Err()
}

// Update replaces a product's name, image and line association
func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, image = $2, line_id = $3, updated_at = $4 WHERE id = $5`,
		product.Name, product.Image, product.LineID, time.Now(), product.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// Delete removes a product and its year data in one transaction
func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM year_data WHERE product_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}
