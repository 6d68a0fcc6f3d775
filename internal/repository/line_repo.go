package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
)

// lineRepo is the concrete implementation of LineRepository
type lineRepo struct {
	db *database.DB
}

// NewLineRepo creates a new line repository
func NewLineRepo(db *database.DB) LineRepository {
	return &lineRepo{db: db}
}

// Create inserts a new line and fills in the generated id
func (r *lineRepo) Create(ctx context.Context, line *models.Line) error {
	query := `
		INSERT INTO lines (name, slug, header_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	now := time.Now()
	line.CreatedAt = now
	line.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, query,
		line.Name, line.Slug, line.HeaderImageURL, now,
	).Scan(&line.ID)
	return mapError(err)
}

// GetByID retrieves a line by ID
func (r *lineRepo) GetByID(ctx context.Context, id int64) (*models.Line, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByName retrieves a line by its display name
func (r *lineRepo) GetByName(ctx context.Context, name string) (*models.Line, error) {
	return r.get(ctx, `WHERE name = $1`, name)
}

func (r *lineRepo) get(ctx context.Context, where string, arg any) (*models.Line, error) {
	query := `SELECT id, name, slug, header_image_url, created_at, updated_at FROM lines ` + where

	var line models.Line
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&line.ID, &line.Name, &line.Slug, &line.HeaderImageURL,
		&line.CreatedAt, &line.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// List retrieves all lines ordered by id ascending. View access is
// universal, so this is the full set for any authenticated caller.
func (r *lineRepo) List(ctx context.Context) ([]*models.Line, error) {
	query := `SELECT id, name, slug, header_image_url, created_at, updated_at FROM lines ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.Line
	for rows.Next() {
		var line models.Line
		err := rows.Scan(
			&line.ID, &line.Name, &line.Slug, &line.HeaderImageURL,
			&line.CreatedAt, &line.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}

// ListWithAssignment retrieves all lines, each tagged with whether the given
// user holds an edit grant for it.
func (r *lineRepo) ListWithAssignment(ctx context.Context, userID int64) ([]*models.LineWithAssignment, error) {
	query := `
		SELECT l.id, l.name, l.slug, l.header_image_url, l.created_at, l.updated_at,
		       ul.user_id IS NOT NULL AS is_assigned
		FROM lines l
		LEFT JOIN user_lines ul ON ul.line_id = l.id AND ul.user_id = $1
		ORDER BY l.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.LineWithAssignment
	for rows.Next() {
		var line models.LineWithAssignment
		err := rows.Scan(
			&line.ID, &line.Name, &line.Slug, &line.HeaderImageURL,
			&line.CreatedAt, &line.UpdatedAt, &line.IsAssigned,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}

// Update replaces a line's name, slug and header image
func (r *lineRepo) Update(ctx context.Context, line *models.Line) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lines SET name = $1, slug = $2, header_image_url = $3, updated_at = $4 WHERE id = $5`,
		line.Name, line.Slug, line.HeaderImageURL, time.Now(), line.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// DeleteCascade removes the line with its products, their year data and any
// grants, children before parents, in one transaction.
func (r *lineRepo) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM year_data WHERE product_id IN (SELECT id FROM products WHERE line_id = $1)`, id,
		); err != nil {
			return fmt.Errorf("failed to delete year data: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE line_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_lines WHERE line_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete grants: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete line: %w", err)
		}
		return requireAffected(res)
	})
}

// HasAssignment reports whether a grant row joins the user and line
func (r *lineRepo) HasAssignment(ctx context.Context, userID, lineID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_lines WHERE user_id = $1 AND line_id = $2)`,
		userID, lineID,
	).Scan(&exists)
	return exists, err
}

// ListAssignments returns the line ids a user is granted
func (r *lineRepo) ListAssignments(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT line_id FROM user_lines WHERE user_id = $1 ORDER BY line_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetAssignments replaces a user's grants with the given line ids
func (r *lineRepo) SetAssignments(ctx context.Context, userID int64, lineIDs []int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_lines WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to clear grants: %w", err)
		}
		if len(lineIDs) == 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_lines (user_id, line_id) SELECT $1, unnest($2::bigint[])`,
			userID, pq.Array(lineIDs),
		)
		if err != nil {
			return fmt.Errorf("failed to insert grants: %w", err)
		}
		return nil
	})
}
