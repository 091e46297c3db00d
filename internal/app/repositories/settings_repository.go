package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

// ISettingsRepository defines persistence operations for the single
// institute settings row.
type ISettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, settings *models.Settings) error
}

// SettingsRepository handles database operations for institute settings
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{
		db: db,
	}
}

// Get retrieves the settings row. The seed inserts exactly one.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	query := `
		SELECT id, institute_name, discount_percent, updated_at
		FROM settings
		ORDER BY id
		LIMIT 1
	`

	var settings models.Settings
	err := r.db.QueryRow(ctx, query).Scan(
		&settings.ID,
		&settings.InstituteName,
		&settings.DiscountPercent,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error getting settings: %w", err)
	}

	return &settings, nil
}

// UpdateTx updates the settings row within a transaction
func (r *SettingsRepository) UpdateTx(ctx context.Context, tx pgx.Tx, settings *models.Settings) error {
	query := `
		UPDATE settings
		SET institute_name = $1, discount_percent = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	err := tx.QueryRow(ctx, query,
		settings.InstituteName, settings.DiscountPercent, settings.ID).
		Scan(&settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error updating settings: %w", err)
	}

	return nil
}
