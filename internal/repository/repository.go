package repository

import (
	"context"

	"github.com/sps-dashboard-api/internal/database"
	"github.com/sps-dashboard-api/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// LineRepository defines the interface for line and grant data operations
type LineRepository interface {
	Create(ctx context.Context, line *models.Line) error
	GetByID(ctx context.Context, id int64) (*models.Line, error)
	GetByName(ctx context.Context, name string) (*models.Line, error)
	List(ctx context.Context) ([]*models.Line, error)
	ListWithAssignment(ctx context.Context, userID int64) ([]*models.LineWithAssignment, error)
	Update(ctx context.Context, line *models.Line) error
	// DeleteCascade removes the line together with its products, their year
	// data and any user grants, in one transaction.
	DeleteCascade(ctx context.Context, id int64) error
	HasAssignment(ctx context.Context, userID, lineID int64) (bool, error)
	ListAssignments(ctx context.Context, userID int64) ([]int64, error)
	SetAssignments(ctx context.Context, userID int64, lineIDs []int64) error
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetWithYearData(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, lineID *int64) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// YearDataRepository defines the interface for per-year metric records
type YearDataRepository interface {
	Upsert(ctx context.Context, yd *models.YearData) (*models.YearData, error)
	Delete(ctx context.Context, productID int64, year int) error
	ListByProduct(ctx context.Context, productID int64) ([]models.YearData, error)
}

// SettingsRepository defines the interface for the singleton settings row
type SettingsRepository interface {
	GetOrCreate(ctx context.Context) (*models.GlobalSettings, error)
	Update(ctx context.Context, headerImageURL *string, activeYears []int) (*models.GlobalSettings, error)
}

// BackupRepository defines the multi-entity snapshot and import operations.
// Snapshot is a pure read; Restore and ImportWorkbook each run as a single
// all-or-nothing transaction.
type BackupRepository interface {
	Snapshot(ctx context.Context) (*models.BackupData, error)
	Restore(ctx context.Context, data *models.BackupData) (models.RestoreCounts, error)
	ImportWorkbook(ctx context.Context, lines []models.ExcelLineRow, rows []models.ExcelProductRow) (models.ExcelImportCounts, []string, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Line     LineRepository
	Product  ProductRepository
	YearData YearDataRepository
	Settings SettingsRepository
	Backup   BackupRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Line:     NewLineRepo(db),
		Product:  NewProductRepo(db),
		YearData: NewYearDataRepo(db),
		Settings: NewSettingsRepo(db),
		Backup:   NewBackupRepo(db),
	}
}
