package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/pkg/apperrors"
	"github.com/emre/akademix/internal/pkg/dberrors"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	CreateStaffProfileTx(ctx context.Context, tx pgx.Tx, profile *models.StaffProfile) error
	CreateReceptionistProfileTx(ctx context.Context, tx pgx.Tx, profile *models.ReceptionistProfile) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error
	SetActiveTx(ctx context.Context, tx pgx.Tx, id int64, active bool) error
	UpdateLastLogin(ctx context.Context, id int64) error
	StaffExists(ctx context.Context, staffID int64) (bool, error)
	CountStaff(ctx context.Context) (int64, error)
}

// UserRepository handles database operations for users and their profiles
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, password, role, is_active, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateTx inserts a new user within a transaction.
func (r *UserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	query := `
		INSERT INTO users (username, password, role, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query, user.Username, user.Password, user.Role, user.IsActive).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// CreateStaffProfileTx inserts the 1:1 staff profile for a STAFF user.
func (r *UserRepository) CreateStaffProfileTx(ctx context.Context, tx pgx.Tx, profile *models.StaffProfile) error {
	query := `
		INSERT INTO staff_profiles (user_id, full_name, contact)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query, profile.UserID, profile.FullName, profile.Contact).Scan(&profile.ID)
	if err != nil {
		return fmt.Errorf("error creating staff profile: %w", err)
	}

	return nil
}

// CreateReceptionistProfileTx inserts the 1:1 receptionist profile.
func (r *UserRepository) CreateReceptionistProfileTx(ctx context.Context, tx pgx.Tx, profile *models.ReceptionistProfile) error {
	query := `
		INSERT INTO receptionist_profiles (user_id, full_name, contact)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query, profile.UserID, profile.FullName, profile.Contact).Scan(&profile.ID)
	if err != nil {
		return fmt.Errorf("error creating receptionist profile: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by unique username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// UsernameExists checks if a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username existence: %w", err)
	}

	return exists, nil
}

// GetAll retrieves all users ordered by creation time
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateTx updates username, password hash and role within a transaction.
func (r *UserRepository) UpdateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, password = $2, role = $3, updated_at = NOW()
		WHERE id = $4
	`

	cmdTag, err := tx.Exec(ctx, query, user.Username, user.Password, user.Role, user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameExists
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// DeleteTx deletes a user by ID within a transaction. Profile rows cascade.
func (r *UserRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// SetActiveTx flips the active flag within a transaction.
func (r *UserRepository) SetActiveTx(ctx context.Context, tx pgx.Tx, id int64, active bool) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error toggling user active flag: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin stamps the last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// StaffExists checks if a staff profile exists by its ID
func (r *UserRepository) StaffExists(ctx context.Context, staffID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM staff_profiles WHERE id = $1)`, staffID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking staff existence: %w", err)
	}

	return exists, nil
}

// CountStaff counts staff profiles for the dashboard
func (r *UserRepository) CountStaff(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM staff_profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting staff: %w", err)
	}

	return count, nil
}
