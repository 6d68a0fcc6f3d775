// Package authz decides who may read or write which line of data.
//
// View access is universal within the authenticated population: every user
// sees every line's dashboard. Mutation access is scoped per assignment:
// admins edit everything, regular users edit only lines they hold a grant
// for. The engine returns booleans or typed errors; response shaping belongs
// to the handlers.
package authz

import (
	"context"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// Engine evaluates access rules against the grant relation.
type Engine struct {
	lines repository.LineRepository
}

// NewEngine creates an authorization engine
func NewEngine(lines repository.LineRepository) *Engine {
	return &Engine{lines: lines}
}

// IsAdmin reports whether the role is ADMIN.
func IsAdmin(role string) bool {
	return role == models.RoleAdmin
}

// CanAccessLine reports whether a user may edit the given line. Admins may
// edit every line; regular users only lines they are assigned. A missing
// line or missing grant is false, not an error.
func (e *Engine) CanAccessLine(ctx context.Context, userID, lineID int64, role string) (bool, error) {
	if IsAdmin(role) {
		return true, nil
	}
	return e.lines.HasAssignment(ctx, userID, lineID)
}

// AccessibleLines returns every line, id ascending. View access is
// universal.
func (e *Engine) AccessibleLines(ctx context.Context) ([]*models.Line, error) {
	return e.lines.List(ctx)
}

// AccessibleLinesWithAssignment returns every line tagged with whether the
// user holds an edit grant, so callers can distinguish editable lines from
// visible-but-locked ones.
func (e *Engine) AccessibleLinesWithAssignment(ctx context.Context, userID int64) ([]*models.LineWithAssignment, error) {
	return e.lines.ListWithAssignment(ctx, userID)
}

// CanEditProduct defers to CanAccessLine on the product's parent line.
// A product with no line is legacy data, editable only by admins.
func (e *Engine) CanEditProduct(ctx context.Context, userID int64, role string, product *models.Product) (bool, error) {
	if IsAdmin(role) {
		return true, nil
	}
	if product.LineID == nil {
		return false, nil
	}
	return e.CanAccessLine(ctx, userID, *product.LineID, role)
}

// CheckModifyUser enforces the super-user protection: the super user's role
// can never change and the row can never be deleted, regardless of caller.
func CheckModifyUser(target *models.User, changesRole, deletes bool) error {
	if target.SuperUser && (changesRole || deletes) {
		return apperr.New(apperr.Forbidden, "cannot modify super user")
	}
	return nil
}
