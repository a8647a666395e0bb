package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sport-shop/internal/auth"
	"sport-shop/internal/model"
	"sport-shop/internal/repository"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a user holding the USER role.
func (s *authService) Register(ctx context.Context, req *model.AuthRequest) (*model.UserDTO, error) {
	if req == nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, model.NewValidationError(model.ErrCodeMissingField, "username and password are required")
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, model.NewValidationError(model.ErrCodeInvalidParameter,
			fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		s.logger.Warn().Str("username", username).Msg("username already taken")
		return nil, model.ErrDuplicateUsername
	}

	if email != "" {
		exists, err = s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			s.logger.Warn().Str("email", email).Msg("email already taken")
			return nil, model.ErrDuplicateEmail
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Roles:        []string{model.RoleUser},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", username).Msg("user registered")

	return &model.UserDTO{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Login checks the credentials and issues a bearer token.
func (s *authService) Login(ctx context.Context, req *model.AuthRequest) (*model.AuthResponse, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, model.ErrBadCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("login failed")
		return nil, model.ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")

	return &model.AuthResponse{
		Token: token,
		User:  model.UserDTO{ID: user.ID, Username: user.Username, Roles: user.Roles},
	}, nil
}

// Check resolves the bearer token to the stored user. Roles come from the
// database, not from the token.
func (s *authService) Check(ctx context.Context, authorizationHeader string) *model.CheckAuthResponse {
	unauthenticated := &model.CheckAuthResponse{Authenticated: false}

	token, ok := auth.BearerToken(authorizationHeader)
	if !ok {
		return unauthenticated
	}

	principal, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected")
		return unauthenticated
	}

	user, err := s.userRepo.GetByUsername(ctx, principal.Username)
	if err != nil || user == nil {
		return unauthenticated
	}

	return &model.CheckAuthResponse{
		Authenticated: true,
		User:          &model.UserDTO{ID: user.ID, Username: user.Username, Roles: user.Roles},
	}
}
