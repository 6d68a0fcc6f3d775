package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sps-dashboard-api/internal/apperr"
	"github.com/sps-dashboard-api/internal/auth"
	"github.com/sps-dashboard-api/internal/config"
	"github.com/sps-dashboard-api/internal/models"
	"github.com/sps-dashboard-api/internal/repository"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	cfg    *config.AuthConfig
	log    zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, cfg *config.Config, log zerolog.Logger) *authService {
	return &authService{
		users:  users,
		tokens: auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry),
		cfg:    &cfg.Auth,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// Login verifies credentials and issues a session token. Bad username and
// bad password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role, user.SuperUser)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("User logged in")
	return token, user, nil
}

// ChangePassword verifies the current password and replaces the hash
func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.New(apperr.Validation, "new password must be at least 6 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.NotFound, "user not found")
	}

	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return apperr.New(apperr.Unauthorized, "current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// Bootstrap creates the initial super-user admin when the users table is
// empty. The super-user flag is set here and nowhere else.
func (s *authService) Bootstrap(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.cfg.BootstrapPassword == "" {
		return apperr.New(apperr.Validation, "AUTH_BOOTSTRAP_PASSWORD is required to create the initial admin")
	}

	hash, err := auth.HashPassword(s.cfg.BootstrapPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     s.cfg.BootstrapUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		SuperUser:    true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	s.log.Info().Str("username", admin.Username).Msg("Bootstrap super user created")
	return nil
}
