package models

import (
	"time"
)

// YearData holds the metrics recorded for one product in one calendar year.
// (ProductID, Year) is unique; writes use upsert semantics.
//
// DT, UT, NVA and OTR are duration metrics. KD, KE, KER and KSR are
// efficiency ratios stored as fractions (0-1) and displayed as percentages.
// TSR is a free-text reference code that may carry an error sentinel from
// source spreadsheets.
type YearData struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Year      int       `json:"year" db:"year"`
	DT        *float64  `json:"dt" db:"dt"`
	UT        *float64  `json:"ut" db:"ut"`
	NVA       *float64  `json:"nva" db:"nva"`
	KD        *float64  `json:"kd" db:"kd"`
	KE        *float64  `json:"ke" db:"ke"`
	KER       *float64  `json:"ker" db:"ker"`
	KSR       *float64  `json:"ksr" db:"ksr"`
	OTR       *float64  `json:"otr" db:"otr"`
	TSR       *string   `json:"tsr" db:"tsr"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
