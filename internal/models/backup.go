package models

import (
	"time"
)

// BackupVersion is the snapshot document format version.
const BackupVersion = "1.0"

// Backup is the portable snapshot document produced by export and consumed
// by restore.
type Backup struct {
	ExportDate time.Time  `json:"exportDate"`
	ExportedBy string     `json:"exportedBy"`
	Version    string     `json:"version"`
	Data       BackupData `json:"data"`
}

// BackupData carries the full relational graph. Users are exported without
// credential hashes and are never touched by restore.
type BackupData struct {
	Lines          []BackupLine     `json:"lines"`
	Products       []Product        `json:"products"`
	YearData       []YearData       `json:"yearData"`
	Users          []BackupUser     `json:"users"`
	UserLines      []UserLine       `json:"userLines"`
	GlobalSettings []GlobalSettings `json:"globalSettings"`
}

// BackupLine embeds the line's assignment join rows.
type BackupLine struct {
	Line
	AssignedUsers []UserLine `json:"assignedUsers"`
}

// BackupUser is a user record with the credential hash excluded.
type BackupUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RestoreCounts reports how many rows of each kind a restore imported.
type RestoreCounts struct {
	Lines     int `json:"lines"`
	Products  int `json:"products"`
	YearData  int `json:"yearData"`
	UserLines int `json:"userLines"`
}

// ExcelImportCounts reports attempted row counts for a spreadsheet import.
// Skipped rows are counted separately; attempted counts are kept for
// compatibility with the existing clients.
type ExcelImportCounts struct {
	Lines       int `json:"lines"`
	Products    int `json:"products"`
	SkippedRows int `json:"skippedRows"`
}
