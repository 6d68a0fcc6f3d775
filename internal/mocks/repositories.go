package mocks

import (
	"context"

	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[int64]*models.User
	NextID      int64
	CreateError error
	UpdateError error
	DeleteError error
}

// Verify interface compliance
var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int64]*models.User),
		NextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	return users, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if u, ok := m.Users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if u, ok := m.Users[id]; ok {
		u.Role = role
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockLineRepository is a mock implementation of LineRepository
type MockLineRepository struct {
	Lines       map[int64]*models.Line
	Assignments map[int64][]int64 // userID -> lineIDs
	NextID      int64
	CreateError error
	DeleteError error
}

// Verify interface compliance
var _ repository.LineRepository = (*MockLineRepository)(nil)

func NewMockLineRepository() *MockLineRepository {
	return &MockLineRepository{
		Lines:       make(map[int64]*models.Line),
		Assignments: make(map[int64][]int64),
		NextID:      1,
	}
}

func (m *MockLineRepository) Create(ctx context.Context, line *models.Line) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	line.ID = m.NextID
	m.NextID++
	m.Lines[line.ID] = line
	return nil
}

func (m *MockLineRepository) GetByID(ctx context.Context, id int64) (*models.Line, error) {
	return m.Lines[id], nil
}

func (m *MockLineRepository) GetByName(ctx context.Context, name string) (*models.Line, error) {
	for _, l := range m.Lines {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, nil
}

func (m *MockLineRepository) List(ctx context.Context) ([]*models.Line, error) {
	lines := make([]*models.Line, 0, len(m.Lines))
	for _, l := range m.Lines {
		lines = append(lines, l)
	}
	return lines, nil
}

func (m *MockLineRepository) ListWithAssignment(ctx context.Context, userID int64) ([]*models.LineWithAssignment, error) {
	lines := make([]*models.LineWithAssignment, 0, len(m.Lines))
	for _, l := range m.Lines {
		assigned, _ := m.HasAssignment(ctx, userID, l.ID)
		lines = append(lines, &models.LineWithAssignment{Line: *l, IsAssigned: assigned})
	}
	return lines, nil
}

func (m *MockLineRepository) Update(ctx context.Context, line *models.Line) error {
	m.Lines[line.ID] = line
	return nil
}

func (m *MockLineRepository) DeleteCascade(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Lines, id)
	return nil
}

func (m *MockLineRepository) HasAssignment(ctx context.Context, userID, lineID int64) (bool, error) {
	for _, id := range m.Assignments[userID] {
		if id == lineID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockLineRepository) ListAssignments(ctx context.Context, userID int64) ([]int64, error) {
	return m.Assignments[userID], nil
}

func (m *MockLineRepository) SetAssignments(ctx context.Context, userID int64, lineIDs []int64) error {
	m.Assignments[userID] = lineIDs
	return nil
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	Products    map[int64]*models.Product
	NextID      int64
	CreateError error
	DeleteError error
}

// Verify interface compliance
var _ repository.ProductRepository = (*MockProductRepository)(nil)

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		Products: make(map[int64]*models.Product),
		NextID:   1,
	}
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	product.ID = m.NextID
	m.NextID++
	m.Products[product.ID] = product
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return m.Products[id], nil
}

func (m *MockProductRepository) GetWithYearData(ctx context.Context, id int64) (*models.Product, error) {
	return m.Products[id], nil
}

func (m *MockProductRepository) List(ctx context.Context, lineID *int64) ([]*models.Product, error) {
	products := make([]*models.Product, 0, len(m.Products))
	for _, p := range m.Products {
		if lineID != nil && (p.LineID == nil || *p.LineID != *lineID) {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	m.Products[product.ID] = product
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Products, id)
	return nil
}

// MockYearDataRepository is a mock implementation of YearDataRepository
type MockYearDataRepository struct {
	Records     map[int64]map[int]*models.YearData // productID -> year -> record
	UpsertError error
	DeleteError error
}

// Verify interface compliance
var _ repository.YearDataRepository = (*MockYearDataRepository)(nil)

func NewMockYearDataRepository() *MockYearDataRepository {
	return &MockYearDataRepository{
		Records: make(map[int64]map[int]*models.YearData),
	}
}

func (m *MockYearDataRepository) Upsert(ctx context.Context, yd *models.YearData) (*models.YearData, error) {
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}
	if m.Records[yd.ProductID] == nil {
		m.Records[yd.ProductID] = make(map[int]*models.YearData)
	}
	m.Records[yd.ProductID][yd.Year] = yd
	return yd, nil
}

func (m *MockYearDataRepository) Delete(ctx context.Context, productID int64, year int) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Records[productID], year)
	return nil
}

func (m *MockYearDataRepository) ListByProduct(ctx context.Context, productID int64) ([]models.YearData, error) {
	records := make([]models.YearData, 0, len(m.Records[productID]))
	for _, r := range m.Records[productID] {
		records = append(records, *r)
	}
	return records, nil
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	Settings *models.GlobalSettings
}

// Verify interface compliance
var _ repository.SettingsRepository = (*MockSettingsRepository)(nil)

func NewMockSettingsRepository() *MockSettingsRepository {
	headerImage := models.DefaultHeaderImageURL
	return &MockSettingsRepository{
		Settings: &models.GlobalSettings{
			ID:             1,
			HeaderImageURL: &headerImage,
			ActiveYears:    []int{2023, 2024, 2025},
		},
	}
}

func (m *MockSettingsRepository) GetOrCreate(ctx context.Context) (*models.GlobalSettings, error) {
	return m.Settings, nil
}

func (m *MockSettingsRepository) Update(ctx context.Context, headerImageURL *string, activeYears []int) (*models.GlobalSettings, error) {
	if headerImageURL != nil {
		m.Settings.HeaderImageURL = headerImageURL
	}
	if activeYears != nil {
		m.Settings.ActiveYears = activeYears
	}
	return m.Settings, nil
}

// MockBackupRepository is a mock implementation of BackupRepository
type MockBackupRepository struct {
	SnapshotFunc        func(ctx context.Context) (*models.BackupData, error)
	RestoreFunc         func(ctx context.Context, data *models.BackupData) (models.RestoreCounts, error)
	ImportWorkbookFunc  func(ctx context.Context, lines []models.ExcelLineRow, rows []models.ExcelProductRow) (models.ExcelImportCounts, []string, error)
	RestoredData        *models.BackupData
	ImportedLines       []models.ExcelLineRow
	ImportedRows        []models.ExcelProductRow
	ImportWorkbookCalls int
}

// Verify interface compliance
var _ repository.BackupRepository = (*MockBackupRepository)(nil)

func NewMockBackupRepository() *MockBackupRepository {
	return &MockBackupRepository{}
}

func (m *MockBackupRepository) Snapshot(ctx context.Context) (*models.BackupData, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	return &models.BackupData{}, nil
}

func (m *MockBackupRepository) Restore(ctx context.Context, data *models.BackupData) (models.RestoreCounts, error) {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, data)
	}
	m.RestoredData = data
	return models.RestoreCounts{
		Lines:     len(data.Lines),
		Products:  len(data.Products),
		YearData:  len(data.YearData),
		UserLines: len(data.UserLines),
	}, nil
}

func (m *MockBackupRepository) ImportWorkbook(ctx context.Context, lines []models.ExcelLineRow, rows []models.ExcelProductRow) (models.ExcelImportCounts, []string, error) {
	m.ImportWorkbookCalls++
	if m.ImportWorkbookFunc != nil {
		return m.ImportWorkbookFunc(ctx, lines, rows)
	}
	m.ImportedLines = lines
	m.ImportedRows = rows
	return models.ExcelImportCounts{Lines: len(lines), Products: len(rows)}, nil, nil
}
