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
)

// SettingsService handles the institute-wide settings row
type SettingsService struct {
	settingsRepo repositories.ISettingsRepository
	auditRepo    repositories.IAuditRepository
	transactor   db.Transactor
	logger       zerolog.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settingsRepo repositories.ISettingsRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	logger zerolog.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		transactor:   transactor,
		logger:       logger,
	}
}

// Get returns the institute settings.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

// Update replaces the settings values and records the change.
func (s *SettingsService) Update(ctx context.Context, actorID int64, req *dto.UpdateSettingsRequest) (*models.Settings, error) {
	name := strings.TrimSpace(req.InstituteName)
	if name == "" {
		return nil, apperrors.ErrValidationFailed
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return nil, apperrors.NewBadRequestError("discount percent must be between 0 and 100")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.InstituteName = name
	settings.DiscountPercent = req.DiscountPercent

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.settingsRepo.UpdateTx(ctx, tx, settings); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionUpdateSettings,
			Details: fmt.Sprintf("Settings updated: institute '%s', discount %.1f%%", name, req.DiscountPercent),
		})
	})
	if err != nil {
		return nil, err
	}

	return settings, nil
}
