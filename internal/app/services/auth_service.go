package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/apperrors"
	authpkg "github.com/emre/akademix/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	auditRepo  repositories.IAuditRepository
	transactor db.Transactor
	jwtService *authpkg.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	jwtService *authpkg.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		auditRepo:  auditRepo,
		transactor: transactor,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies credentials and returns a token pair. Disabled accounts
// fail after the password check so the two cases stay distinguishable only
// to a caller holding valid credentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Debug().Str("username", req.Username).Msg("Login attempt for unknown username")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !authpkg.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Str("username", req.Username).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt on disabled account")
		return nil, apperrors.ErrAccountDisabled
	}

	tokenResp, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login time")
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  user.ID,
			Action:  models.ActionLogin,
			Details: fmt.Sprintf("User '%s' logged in", user.Username),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	return &dto.AuthResponse{
		Token: *tokenResp,
		User:  dto.NewUserResponse(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The old
// refresh token is revoked so each one is single-use.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes the presented refresh token and records the event.
func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  userID,
			Action:  models.ActionLogout,
			Details: fmt.Sprintf("User '%s' logged out", user.Username),
		})
	})
}

func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	expiry := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, expiry); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
