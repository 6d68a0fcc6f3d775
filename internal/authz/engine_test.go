package authz_test

import (
	"context"
	"testing"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/authz"
	"github.com/sps-dashboard-api/internal/mocks"
	"github.com/sps-dashboard-api/internal/models"
)

func TestIsAdmin(t *testing.T) {
	if !authz.IsAdmin(models.RoleAdmin) {
		t.Error("ADMIN should be admin")
	}
	if authz.IsAdmin(models.RoleUser) {
		t.Error("USER should not be admin")
	}
	if authz.IsAdmin("admin") {
		t.Error("Role comparison is case sensitive")
	}
}

func TestCanAccessLine(t *testing.T) {
	ctx := context.Background()
	lineRepo := mocks.NewMockLineRepository()
	engine := authz.NewEngine(lineRepo)

	line := &models.Line{Name: "Assembly West", Slug: "assembly-west"}
	lineRepo.Create(ctx, line)
	lineRepo.SetAssignments(ctx, 7, []int64{line.ID})

	tests := []struct {
		name   string
		userID int64
		lineID int64
		role   string
		want   bool
	}{
		{"admin any line", 1, line.ID, models.RoleAdmin, true},
		{"admin missing line", 1, 999, models.RoleAdmin, true},
		{"user with grant", 7, line.ID, models.RoleUser, true},
		{"user without grant", 8, line.ID, models.RoleUser, false},
		{"user missing line", 7, 999, models.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CanAccessLine(ctx, tt.userID, tt.lineID, tt.role)
			if err != nil {
				t.Fatalf("CanAccessLine failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanAccessLine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanEditProduct(t *testing.T) {
	ctx := context.Background()
	lineRepo := mocks.NewMockLineRepository()
	engine := authz.NewEngine(lineRepo)

	line := &models.Line{Name: "Assembly East", Slug: "assembly-east"}
	lineRepo.Create(ctx, line)
	lineRepo.SetAssignments(ctx, 7, []int64{line.ID})

	withLine := &models.Product{ID: 1, Name: "NL AD6-1250A", LineID: &line.ID}
	orphan := &models.Product{ID: 2, Name: "XE TT6-1250A"}

	if ok, _ := engine.CanEditProduct(ctx, 7, models.RoleUser, withLine); !ok {
		t.Error("Granted user should edit product on their line")
	}
	if ok, _ := engine.CanEditProduct(ctx, 8, models.RoleUser, withLine); ok {
		t.Error("Ungranted user should not edit product")
	}
	if ok, _ := engine.CanEditProduct(ctx, 7, models.RoleUser, orphan); ok {
		t.Error("Unassigned product should be admin-only")
	}
	if ok, _ := engine.CanEditProduct(ctx, 1, models.RoleAdmin, orphan); !ok {
		t.Error("Admin should edit unassigned product")
	}
}

func TestCheckModifyUser(t *testing.T) {
	super := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin, SuperUser: true}
	regular := &models.User{ID: 2, Username: "bob", Role: models.RoleUser}

	if err := authz.CheckModifyUser(super, true, false); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("Role change on super user should be Forbidden, got %v", err)
	}
	if err := authz.CheckModifyUser(super, false, true); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("Delete of super user should be Forbidden, got %v", err)
	}
	if err := authz.CheckModifyUser(super, false, false); err != nil {
		t.Errorf("Password change on super user should be allowed, got %v", err)
	}
	if err := authz.CheckModifyUser(regular, true, true); err != nil {
		t.Errorf("Regular user modification should be allowed, got %v", err)
	}
}
