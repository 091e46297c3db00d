package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

// IFeeRepository defines fee ledger persistence operations. Payments are
// append-only: no update or delete statement exists for them.
type IFeeRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, fee *models.Fee) error
	GetByID(ctx context.Context, id int64) (*models.Fee, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Fee, error)
	GetByStudentID(ctx context.Context, studentID int64) (*models.Fee, error)
	InsertPaymentTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error
	SumPayments(ctx context.Context, feeID int64) (float64, error)
	SumPaymentsTx(ctx context.Context, tx pgx.Tx, feeID int64) (float64, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, feeID int64, status models.FeeStatus) error
	GetPayments(ctx context.Context, feeID int64) ([]*models.Payment, error)
	LastPaymentDate(ctx context.Context, feeID int64) (time.Time, bool, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Fee, error)
	Count(ctx context.Context) (int64, error)
	AggregateTotals(ctx context.Context) (collected, total float64, pendingLedgers, paidLedgers int64, err error)
}

// FeeRepository handles database operations for fees and payments
type FeeRepository struct {
	db *pgxpool.Pool
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(db *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{
		db: db,
	}
}

const feeColumns = `id, student_id, total_amount, payment_plan, num_installments, status, created_at`

func scanFee(row pgx.Row) (*models.Fee, error) {
	var fee models.Fee
	err := row.Scan(
		&fee.ID,
		&fee.StudentID,
		&fee.TotalAmount,
		&fee.PaymentPlan,
		&fee.NumInstallments,
		&fee.Status,
		&fee.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// CreateTx inserts a new fee ledger within a transaction
func (r *FeeRepository) CreateTx(ctx context.Context, tx pgx.Tx, fee *models.Fee) error {
	query := `
		INSERT INTO fees (student_id, total_amount, payment_plan, num_installments, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		fee.StudentID, fee.TotalAmount, fee.PaymentPlan, fee.NumInstallments, fee.Status).
		Scan(&fee.ID, &fee.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating fee: %w", err)
	}

	return nil
}

// GetByID retrieves a fee by ID
func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE id = $1`

	fee, err := scanFee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeNotFound
		}
		return nil, fmt.Errorf("error retrieving fee: %w", err)
	}

	return fee, nil
}

// GetByIDForUpdate retrieves a fee inside a transaction with a row lock, so
// concurrent payment recordings against one ledger serialize.
func (r *FeeRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE id = $1 FOR UPDATE`

	fee, err := scanFee(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeNotFound
		}
		return nil, fmt.Errorf("error retrieving fee for update: %w", err)
	}

	return fee, nil
}

// GetByStudentID retrieves the fee ledger owned by a student
func (r *FeeRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE student_id = $1 ORDER BY created_at DESC LIMIT 1`

	fee, err := scanFee(r.db.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeNotFound
		}
		return nil, fmt.Errorf("error retrieving fee by student: %w", err)
	}

	return fee, nil
}

// InsertPaymentTx appends a payment within a transaction
func (r *FeeRepository) InsertPaymentTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	query := `
		INSERT INTO payments (fee_id, amount, payment_date, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		payment.FeeID, payment.Amount, payment.PaymentDate, payment.Notes).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting payment: %w", err)
	}

	return nil
}

// SumPayments computes the paid total for a fee, always recomputed on read
func (r *FeeRepository) SumPayments(ctx context.Context, feeID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE fee_id = $1`, feeID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("error summing payments: %w", err)
	}

	return sum, nil
}

// SumPaymentsTx computes the paid total inside a transaction, observing the
// payment just inserted by the same transaction.
func (r *FeeRepository) SumPaymentsTx(ctx context.Context, tx pgx.Tx, feeID int64) (float64, error) {
	var sum float64
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE fee_id = $1`, feeID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("error summing payments: %w", err)
	}

	return sum, nil
}

// UpdateStatusTx sets the derived fee status within a transaction
func (r *FeeRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, feeID int64, status models.FeeStatus) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE fees SET status = $1 WHERE id = $2`, status, feeID)
	if err != nil {
		return fmt.Errorf("error updating fee status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeeNotFound
	}

	return nil
}

// GetPayments retrieves the ordered payment history of a fee
func (r *FeeRepository) GetPayments(ctx context.Context, feeID int64) ([]*models.Payment, error) {
	query := `
		SELECT id, fee_id, amount, payment_date, notes, created_at
		FROM payments
		WHERE fee_id = $1
		ORDER BY payment_date, id
	`

	rows, err := r.db.Query(ctx, query, feeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.FeeID,
			&payment.Amount,
			&payment.PaymentDate,
			&payment.Notes,
			&payment.CreatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}

// LastPaymentDate returns the most recent payment date of a fee. The second
// return value is false when no payment exists.
func (r *FeeRepository) LastPaymentDate(ctx context.Context, feeID int64) (time.Time, bool, error) {
	var last *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT MAX(payment_date) FROM payments WHERE fee_id = $1`, feeID).Scan(&last)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("error retrieving last payment date: %w", err)
	}

	if last == nil {
		return time.Time{}, false, nil
	}

	return *last, true, nil
}

// GetAll retrieves fee ledgers newest first with a page window
func (r *FeeRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*models.Fee
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, fee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fees, nil
}

// Count returns the total number of fee ledgers
func (r *FeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fees`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting fees: %w", err)
	}

	return count, nil
}

// AggregateTotals computes the institute-wide collected/total amounts and
// ledger status counts for the financial report.
func (r *FeeRepository) AggregateTotals(ctx context.Context) (collected, total float64, pendingLedgers, paidLedgers int64, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM payments), 0),
			COALESCE(SUM(total_amount), 0),
			COUNT(*) FILTER (WHERE status <> 'PAID'),
			COUNT(*) FILTER (WHERE status = 'PAID')
		FROM fees
	`).Scan(&collected, &total, &pendingLedgers, &paidLedgers)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("error aggregating fee totals: %w", err)
	}

	return collected, total, pendingLedgers, paidLedgers, nil
}
