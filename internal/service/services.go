package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/authz"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// AuthService defines login and credential management
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	Bootstrap(ctx context.Context) error
}

// UserService defines admin-side account management
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, username, password string) (*models.User, error)
	Update(ctx context.Context, id int64, password, role *string) error
	Delete(ctx context.Context, id int64) error
	SetLineAssignments(ctx context.Context, userID int64, lineIDs []int64) error
	GetLineAssignments(ctx context.Context, userID int64) ([]int64, error)
}

// LineService defines line management and listing
type LineService interface {
	ListForUser(ctx context.Context, userID int64) ([]*models.LineWithAssignment, error)
	Create(ctx context.Context, name, slug string, headerImageURL *string) (*models.Line, error)
	Update(ctx context.Context, line *models.Line) error
	Delete(ctx context.Context, id int64) error
}

// ProductService defines product CRUD with grant checks on write paths
type ProductService interface {
	List(ctx context.Context, lineID *int64) ([]*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, userID int64, role string, product *models.Product) error
	Update(ctx context.Context, userID int64, role string, product *models.Product) error
	Delete(ctx context.Context, userID int64, role string, id int64) error
}

// YearDataService defines metric record upserts with grant checks
type YearDataService interface {
	Upsert(ctx context.Context, userID int64, role string, yd *models.YearData) (*models.YearData, error)
	Delete(ctx context.Context, userID int64, role string, productID int64, year int) error
}

// SettingsService defines singleton settings access
type SettingsService interface {
	Get(ctx context.Context) (*models.GlobalSettings, error)
	Update(ctx context.Context, headerImageURL *string, activeYears []int) (*models.GlobalSettings, error)
}

// BackupService defines the snapshot export/restore and workbook import
type BackupService interface {
	Export(ctx context.Context, exportedBy string) (*models.Backup, error)
	Restore(ctx context.Context, backup *models.Backup) (models.RestoreCounts, error)
	ImportExcel(ctx context.Context, workbook io.Reader) (models.ExcelImportCounts, error)
}

// ChatService defines the AI assistant
type ChatService interface {
	Reply(ctx context.Context, message string, history []models.ChatMessage) (string, error)
}

// Services holds all service interfaces
type Services struct {
	Auth     AuthService
	User     UserService
	Line     LineService
	Product  ProductService
	YearData YearDataService
	Settings SettingsService
	Backup   BackupService
	Chat     ChatService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	engine := authz.NewEngine(repos.Line)

	return &Services{
		Auth:     newAuthService(repos.User, cfg, log),
		User:     newUserService(repos.User, repos.Line, cfg, log),
		Line:     newLineService(repos.Line, log),
		Product:  newProductService(repos.Product, engine, log),
		YearData: newYearDataService(repos.YearData, repos.Product, engine, log),
		Settings: newSettingsService(repos.Settings),
		Backup:   newBackupService(repos.Backup, log),
		Chat:     newChatService(&cfg.Chat, log),
	}
}
