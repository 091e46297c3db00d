package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/apperrors"
	authpkg "github.com/emre/akademix/internal/pkg/auth"
)

// UserService handles admin-side account management
type UserService struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	auditRepo  repositories.IAuditRepository
	transactor db.Transactor
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		auditRepo:  auditRepo,
		transactor: transactor,
		logger:     logger,
	}
}

// GetAll returns every account, newest first.
func (s *UserService) GetAll(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, dto.NewUserResponse(u))
	}
	return responses, nil
}

// Create adds a new account. STAFF and RECEPTIONIST accounts get their 1:1
// profile row in the same transaction; the audit entry commits with them.
func (s *UserService) Create(ctx context.Context, actorID int64, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.ErrValidationFailed
	}
	if !req.Role.IsValid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role '%s'", req.Role))
	}

	hashed, err := authpkg.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: hashed,
		Role:     req.Role,
		IsActive: true,
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
			return err
		}

		fullName := strings.TrimSpace(req.FullName)
		if fullName == "" {
			fullName = username
		}

		switch user.Role {
		case models.RoleStaff:
			profile := &models.StaffProfile{UserID: user.ID, FullName: fullName, Contact: req.Contact}
			if err := s.userRepo.CreateStaffProfileTx(ctx, tx, profile); err != nil {
				return err
			}
		case models.RoleReceptionist:
			profile := &models.ReceptionistProfile{UserID: user.ID, FullName: fullName, Contact: req.Contact}
			if err := s.userRepo.CreateReceptionistProfileTx(ctx, tx, profile); err != nil {
				return err
			}
		}

		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionCreateUser,
			Details: fmt.Sprintf("Created %s user '%s'", user.Role, user.Username),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User created")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Update changes a user's username and, when supplied, the password. The
// role is immutable after creation: a request naming a different role is
// rejected rather than silently ignored.
func (s *UserService) Update(ctx context.Context, actorID, userID int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Role != user.Role {
		return nil, apperrors.ErrRoleImmutable
	}

	user.Username = strings.TrimSpace(req.Username)
	if user.Username == "" {
		return nil, apperrors.ErrValidationFailed
	}

	if req.Password != "" {
		hashed, err := authpkg.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionUpdateUser,
			Details: fmt.Sprintf("Updated user '%s' (id %d)", user.Username, user.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Delete removes a user account. Audit rows written by the user survive:
// the log references the id, not the row.
func (s *UserService) Delete(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return apperrors.NewBadRequestError("cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens before delete")
	}

	return s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.DeleteTx(ctx, tx, userID); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionDeleteUser,
			Details: fmt.Sprintf("Deleted user '%s' (id %d)", user.Username, user.ID),
		})
	})
}

// ToggleActive flips a user's active flag. Disabling revokes outstanding
// refresh tokens so existing sessions die at access-token expiry.
func (s *UserService) ToggleActive(ctx context.Context, actorID, userID int64) (*dto.UserResponse, error) {
	if actorID == userID {
		return nil, apperrors.NewBadRequestError("cannot disable your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newState := !user.IsActive

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.SetActiveTx(ctx, tx, userID, newState); err != nil {
			return err
		}
		verb := "Enabled"
		if !newState {
			verb = "Disabled"
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionToggleUserActive,
			Details: fmt.Sprintf("%s user '%s' (id %d)", verb, user.Username, user.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	if !newState {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens on disable")
		}
	}

	user.IsActive = newState
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
