package models

// ExcelLineRow is a parsed row from the "Lines" sheet.
type ExcelLineRow struct {
	Name           string
	Slug           string
	HeaderImageURL *string
}

// ExcelProductRow is a parsed row from the "Products & Year Data" sheet.
// Duration metrics default to zero when absent or unparsable; percentage
// metrics and TSR are nil for "N/A". The asymmetry matches the spreadsheet
// contract the importer replaces.
type ExcelProductRow struct {
	ProductName string
	LineName    string
	Year        int
	DT          float64
	UT          float64
	NVA         float64
	OTR         float64
	KD          *float64
	KE          *float64
	KER         *float64
	KSR         *float64
	TSR         *string
}
