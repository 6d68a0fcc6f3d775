package models

import (
	"time"
)

// DefaultHeaderImageURL is applied when settings are first created.
const DefaultHeaderImageURL = "/F400i.png"

// GlobalSettings is a singleton record. The table enforces a single row
// (id = 1); reads use get-or-create-default semantics.
type GlobalSettings struct {
	ID             int64     `json:"id" db:"id"`
	HeaderImageURL *string   `json:"headerImageUrl" db:"header_image_url"`
	ActiveYears    []int     `json:"activeYears" db:"active_years"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
