package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/api"
	"github.com/sps-dashboard-api/internal/auth"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/mocks"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
	"github.com/sps-dashboard-api/internal/service"
)

type routerEnv struct {
	router   *gin.Engine
	cfg      *config.Config
	users    *mocks.MockUserRepository
	lines    *mocks.MockLineRepository
	products *mocks.MockProductRepository
	backups  *mocks.MockBackupRepository
}

func setupTestRouter(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &routerEnv{
		users:    mocks.NewMockUserRepository(),
		lines:    mocks.NewMockLineRepository(),
		products: mocks.NewMockProductRepository(),
		backups:  mocks.NewMockBackupRepository(),
	}

	repos := &repository.Repositories{
		User:     env.users,
		Line:     env.lines,
		Product:  env.products,
		YearData: mocks.NewMockYearDataRepository(),
		Settings: mocks.NewMockSettingsRepository(),
		Backup:   env.backups,
	}

	env.cfg = &config.Config{
		Auth: config.AuthConfig{
			TokenSecret: "test-secret",
			TokenExpiry: time.Hour,
			BcryptCost:  4,
		},
		Upload: config.UploadConfig{
			Dir:           t.TempDir(),
			MaxUploadSize: 1024 * 1024,
		},
	}

	log := zerolog.Nop()
	services := service.NewServices(repos, env.cfg, log)
	env.router = api.NewRouter(services, env.cfg, log)
	return env
}

func (e *routerEnv) addUser(t *testing.T, username, password, role string, super bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: hash, Role: role, SuperUser: super}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}
	return user
}

func (e *routerEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	issuer := auth.NewTokenIssuer(e.cfg.Auth.TokenSecret, e.cfg.Auth.TokenExpiry)
	token, err := issuer.Issue(user.ID, user.Username, user.Role, user.SuperUser)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w := doJSON(env.router, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "sps-dashboard-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestLogin(t *testing.T) {
	env := setupTestRouter(t)
	env.addUser(t, "alice", "correct-horse", models.RoleUser, false)

	w := doJSON(env.router, "POST", "/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "correct-horse",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["token"] == "" || response["token"] == nil {
		t.Error("Expected a token in the response")
	}
	user := response["user"].(map[string]interface{})
	if user["username"] != "alice" {
		t.Errorf("Expected username alice, got %v", user["username"])
	}
	if _, ok := user["passwordHash"]; ok {
		t.Error("Credential hash must never appear in a response")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := setupTestRouter(t)
	env.addUser(t, "alice", "correct-horse", models.RoleUser, false)

	w := doJSON(env.router, "POST", "/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	w = doJSON(env.router, "POST", "/v1/auth/login", "", map[string]string{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing password, got %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupTestRouter(t)

	w := doJSON(env.router, "GET", "/v1/products", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", w.Code)
	}

	w = doJSON(env.router, "GET", "/v1/products", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for invalid token, got %d", w.Code)
	}
}

func TestAdminGate(t *testing.T) {
	env := setupTestRouter(t)
	user := env.addUser(t, "bob", "password", models.RoleUser, false)
	admin := env.addUser(t, "admin", "password", models.RoleAdmin, true)

	// Regular user is blocked from the admin surface.
	w := doJSON(env.router, "GET", "/v1/users", env.tokenFor(t, user), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for regular user, got %d", w.Code)
	}

	// Admin passes.
	w = doJSON(env.router, "GET", "/v1/users", env.tokenFor(t, admin), nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductCreateGrantCheck(t *testing.T) {
	env := setupTestRouter(t)
	ctx := context.Background()

	granted := env.addUser(t, "granted", "password", models.RoleUser, false)
	ungranted := env.addUser(t, "ungranted", "password", models.RoleUser, false)

	line := &models.Line{Name: "Assembly West", Slug: "assembly-west"}
	env.lines.Create(ctx, line)
	env.lines.SetAssignments(ctx, granted.ID, []int64{line.ID})

	body := map[string]interface{}{"name": "NL AD6-1250A", "lineId": line.ID}

	w := doJSON(env.router, "POST", "/v1/products", env.tokenFor(t, granted), body)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201 for granted user, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(env.router, "POST", "/v1/products", env.tokenFor(t, ungranted), body)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for ungranted user, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBackupExportHeaders(t *testing.T) {
	env := setupTestRouter(t)
	admin := env.addUser(t, "admin", "password", models.RoleAdmin, true)

	env.backups.SnapshotFunc = func(ctx context.Context) (*models.BackupData, error) {
		return &models.BackupData{
			Lines: []models.BackupLine{{Line: models.Line{ID: 1, Name: "Assembly West", Slug: "assembly-west"}}},
		}, nil
	}

	w := doJSON(env.router, "GET", "/v1/backup/export", env.tokenFor(t, admin), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "sps-dashboard-backup-") {
		t.Errorf("Unexpected Content-Disposition: %q", disposition)
	}

	var backup models.Backup
	if err := json.Unmarshal(w.Body.Bytes(), &backup); err != nil {
		t.Fatalf("Export body is not a backup document: %v", err)
	}
	if backup.Version != models.BackupVersion {
		t.Errorf("Expected version %s, got %s", models.BackupVersion, backup.Version)
	}
	if backup.ExportedBy != "admin" {
		t.Errorf("Expected exportedBy admin, got %s", backup.ExportedBy)
	}
}

func TestBackupImportInvalidBody(t *testing.T) {
	env := setupTestRouter(t)
	admin := env.addUser(t, "admin", "password", models.RoleAdmin, true)

	req := httptest.NewRequest("POST", "/v1/backup/import", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, admin))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	// A parseable but empty document is rejected by the service layer.
	w = doJSON(env.router, "POST", "/v1/backup/import", env.tokenFor(t, admin), map[string]interface{}{"version": "1.0"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty snapshot, got %d: %s", w.Code, w.Body.String())
	}
}

func TestYearDataUpsertValidation(t *testing.T) {
	env := setupTestRouter(t)
	admin := env.addUser(t, "admin", "password", models.RoleAdmin, true)

	w := doJSON(env.router, "PUT", "/v1/year-data", env.tokenFor(t, admin), map[string]interface{}{
		"productId": 1,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing year, got %d: %s", w.Code, w.Body.String())
	}
}
