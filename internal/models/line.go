package models

import (
	"time"
)

// Line is an organizational grouping of products, e.g. a production line.
// Name and Slug are both unique.
type Line struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Slug           string    `json:"slug" db:"slug"`
	HeaderImageURL *string   `json:"headerImageUrl" db:"header_image_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// LineWithAssignment tags a line with whether a given user holds an edit
// grant for it. All authenticated users can view every line; the flag lets
// callers distinguish editable lines from visible-but-locked ones.
type LineWithAssignment struct {
	Line
	IsAssigned bool `json:"isAssigned"`
}
