package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/auth"
)

// defaultUsers are the accounts created on first boot so each role portal
// is reachable before any admin exists. Passwords are meant to be rotated
// immediately on a real deployment.
var defaultUsers = []struct {
	username string
	password string
	role     models.Role
	fullName string
}{
	{"admin_user", "admin123", models.RoleAdmin, "Administrator"},
	{"staff_user", "staff123", models.RoleStaff, "Default Staff"},
	{"receptionist_user", "reception123", models.RoleReceptionist, "Front Desk"},
}

// CreateDefaultData seeds the default role accounts and the settings row.
// Existing rows are left untouched, so the seed is safe to run on every boot.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(database.Pool)

	var finalErr error

	for _, u := range defaultUsers {
		exists, err := userRepo.UsernameExists(ctx, u.username)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}

		hashed, err := auth.HashPassword(u.password)
		if err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("failed to hash seed password for %s: %w", u.username, err))
			continue
		}

		user := &models.User{
			Username: u.username,
			Password: hashed,
			Role:     u.role,
			IsActive: true,
		}

		fullName := u.fullName
		err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			if err := userRepo.CreateTx(ctx, tx, user); err != nil {
				return err
			}
			switch u.role {
			case models.RoleStaff:
				return userRepo.CreateStaffProfileTx(ctx, tx, &models.StaffProfile{UserID: user.ID, FullName: fullName})
			case models.RoleReceptionist:
				return userRepo.CreateReceptionistProfileTx(ctx, tx, &models.ReceptionistProfile{UserID: user.ID, FullName: fullName})
			}
			return nil
		})
		if err != nil {
			lgr.Error().Err(err).Str("username", u.username).Msg("Error creating seed user")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		lgr.Info().Str("username", u.username).Str("role", string(u.role)).Msg("Seed user created")
	}

	if err := seedSettings(ctx, database, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func seedSettings(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	var count int
	if err := database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check settings row: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := database.Pool.Exec(ctx,
		`INSERT INTO settings (institute_name, discount_percent) VALUES ($1, $2)`,
		"Akademix Institute", 0.0)
	if err != nil {
		return fmt.Errorf("failed to seed settings row: %w", err)
	}

	lgr.Info().Msg("Default settings row created")
	return nil
}
