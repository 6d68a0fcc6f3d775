package models

import (
	"time"
)

// Product belongs to at most one line. A product with no line is legacy data
// and is editable only by admins.
type Product struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Image     *string    `json:"image" db:"image"`
	LineID    *int64     `json:"lineId" db:"line_id"`
	YearData  []YearData `json:"yearData,omitempty" db:"-"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}
