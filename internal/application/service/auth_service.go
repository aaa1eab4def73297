package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	cartRepo   repository.CartRepository
	sessions   repository.SessionStore
	jwtManager *utils.JWTManager
	reauthTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	sessions repository.SessionStore,
	jwtManager *utils.JWTManager,
	reauthTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		cartRepo:   cartRepo,
		sessions:   sessions,
		jwtManager: jwtManager,
		reauthTTL:  reauthTTL,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens. A successful login also
// satisfies any forced re-authentication left by a till close.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.sessions.ClearForceReauth(ctx, user.ID); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.FullName(), user.GetRoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout ends the cashier's POS session: the cart, the selected till and every
// re-authentication flag are discarded.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	return s.sessions.Destroy(ctx, userID)
}

// ReauthenticateInput represents a password confirmation
type ReauthenticateInput struct {
	UserID   uuid.UUID
	Password string
	// ForCloseTill grants the short-lived till close flag
	ForCloseTill bool
}

// Reauthenticate confirms the caller's password. It clears a forced
// re-authentication and, when asked, grants the till close flag.
func (s *AuthService) Reauthenticate(ctx context.Context, input *ReauthenticateInput) error {
	user, err := s.userRepo.GetWithRoles(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		return apperror.ErrInvalidCredentials
	}

	if input.ForCloseTill {
		if !user.HasRole(entity.RoleAdmin) && !user.HasPermission(entity.PermissionCloseTill) {
			return apperror.ErrAccessDenied
		}
		if err := s.sessions.GrantCloseReauth(ctx, user.ID, s.reauthTTL); err != nil {
			return err
		}
	}

	if err := s.sessions.ClearForceReauth(ctx, user.ID); err != nil {
		return err
	}
	log.Printf("[auth] %s re-authenticated (close till: %t)", user.Email, input.ForCloseTill)
	return nil
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}
