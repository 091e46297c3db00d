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

// IEnquiryRepository defines enquiry persistence operations
type IEnquiryRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, enquiry *models.Enquiry) error
	GetByID(ctx context.Context, id int64) (*models.Enquiry, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Enquiry, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.EnquiryStatus) error
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Enquiry, error)
	Count(ctx context.Context) (int64, error)
}

// EnquiryRepository handles database operations for enquiries
type EnquiryRepository struct {
	db *pgxpool.Pool
}

// NewEnquiryRepository creates a new enquiry repository
func NewEnquiryRepository(db *pgxpool.Pool) *EnquiryRepository {
	return &EnquiryRepository{
		db: db,
	}
}

const enquiryColumns = `id, name, contact, course_interest, status, joining_date, created_at`

func scanEnquiry(row pgx.Row) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := row.Scan(
		&enquiry.ID,
		&enquiry.Name,
		&enquiry.Contact,
		&enquiry.CourseInterest,
		&enquiry.Status,
		&enquiry.JoiningDate,
		&enquiry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// CreateTx inserts a new enquiry within a transaction. Used by direct
// admission, which synthesizes an already-admitted enquiry.
func (r *EnquiryRepository) CreateTx(ctx context.Context, tx pgx.Tx, enquiry *models.Enquiry) error {
	query := `
		INSERT INTO enquiries (name, contact, course_interest, status, joining_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		enquiry.Name, enquiry.Contact, enquiry.CourseInterest, enquiry.Status, enquiry.JoiningDate).
		Scan(&enquiry.ID, &enquiry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating enquiry: %w", err)
	}

	return nil
}

// GetByID retrieves an enquiry by ID
func (r *EnquiryRepository) GetByID(ctx context.Context, id int64) (*models.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries WHERE id = $1`

	enquiry, err := scanEnquiry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("error retrieving enquiry: %w", err)
	}

	return enquiry, nil
}

// GetByIDForUpdate retrieves an enquiry inside a transaction with a row lock,
// so two concurrent admissions of the same enquiry serialize on the guard.
func (r *EnquiryRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries WHERE id = $1 FOR UPDATE`

	enquiry, err := scanEnquiry(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnquiryNotFound
		}
		return nil, fmt.Errorf("error retrieving enquiry for update: %w", err)
	}

	return enquiry, nil
}

// UpdateStatusTx sets the enquiry status within a transaction
func (r *EnquiryRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.EnquiryStatus) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE enquiries SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating enquiry status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnquiryNotFound
	}

	return nil
}

// GetAll retrieves enquiries newest first with a page window
func (r *EnquiryRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enquiries []*models.Enquiry
	for rows.Next() {
		enquiry, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		enquiries = append(enquiries, enquiry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enquiries, nil
}

// Count returns the total number of enquiries
func (r *EnquiryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM enquiries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enquiries: %w", err)
	}

	return count, nil
}
