package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/auth"
	"github.com/sps-dashboard-api/internal/authz"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// userService is the concrete implementation of UserService
type userService struct {
	users repository.UserRepository
	lines repository.LineRepository
	cfg   *config.AuthConfig
	log   zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(users repository.UserRepository, lines repository.LineRepository, cfg *config.Config, log zerolog.Logger) *userService {
	return &userService{
		users: users,
		lines: lines,
		cfg:   &cfg.Auth,
		log:   log.With().Str("service", "user").Logger(),
	}
}

// List returns all users
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Create adds a regular user. New accounts always start with the USER role;
// promotion is a separate update.
func (s *userService) Create(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperr.New(apperr.Validation, "username and password are required")
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("User created")
	return user, nil
}

// Update changes a user's password and/or role. The super user's role can
// never be changed, regardless of caller.
func (s *userService) Update(ctx context.Context, id int64, password, role *string) error {
	if password == nil && role == nil {
		return apperr.New(apperr.Validation, "no fields to update")
	}

	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.New(apperr.NotFound, "user not found")
	}

	if err := authz.CheckModifyUser(target, role != nil, false); err != nil {
		return err
	}

	if role != nil {
		if !models.ValidRoles[*role] {
			return apperr.New(apperr.Validation, "invalid role")
		}
		if err := s.users.UpdateRole(ctx, id, *role); err != nil {
			return err
		}
	}

	if password != nil {
		hash, err := auth.HashPassword(*password, s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
			return err
		}
	}

	s.log.Info().Int64("user_id", id).Bool("role_changed", role != nil).Msg("User updated")
	return nil
}

// Delete removes a user. The super user row can never be deleted.
func (s *userService) Delete(ctx context.Context, id int64) error {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.New(apperr.NotFound, "user not found")
	}

	if err := authz.CheckModifyUser(target, false, true); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Str("username", target.Username).Msg("User deleted")
	return nil
}

// SetLineAssignments replaces a user's edit grants
func (s *userService) SetLineAssignments(ctx context.Context, userID int64, lineIDs []int64) error {
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return s.lines.SetAssignments(ctx, userID, lineIDs)
}

// GetLineAssignments returns the line ids a user is granted
func (s *userService) GetLineAssignments(ctx context.Context, userID int64) ([]int64, error) {
	return s.lines.ListAssignments(ctx, userID)
}
