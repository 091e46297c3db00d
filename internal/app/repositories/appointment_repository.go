package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/pkg/apperrors"
	"github.com/emre/akademix/internal/pkg/dberrors"
	"github.com/emre/akademix/internal/pkg/logger"
)

// IAppointmentRepository defines appointment persistence operations
type IAppointmentRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, appointment *models.Appointment) error
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Appointment, error)
	Count(ctx context.Context) (int64, error)
}

// AppointmentRepository handles database operations for appointments
type AppointmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTx inserts a new appointment within a transaction. The book keeps no
// conflict state, so identical slots for one staff member are accepted.
func (r *AppointmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, appointment *models.Appointment) error {
	sql, args, err := r.sb.Insert("appointments").
		Columns("visitor_name", "visitor_contact", "purpose", "date", "time", "staff_id").
		Values(
			appointment.VisitorName,
			appointment.VisitorContact,
			appointment.Purpose,
			appointment.Date,
			appointment.Time,
			appointment.StaffID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create appointment SQL")
		return fmt.Errorf("failed to build create appointment query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&appointment.ID, &appointment.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "appointments_staff_id_fkey") {
			return apperrors.ErrStaffNotFound
		}
		return fmt.Errorf("error creating appointment: %w", err)
	}

	return nil
}

// GetAll retrieves appointments ordered by date descending, then time
// descending, with a page window.
func (r *AppointmentRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Appointment, error) {
	sql, args, err := r.sb.Select("id", "visitor_name", "visitor_contact", "purpose", "date", "time", "staff_id", "created_at").
		From("appointments").
		OrderBy("date DESC", "time DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list appointments SQL")
		return nil, fmt.Errorf("failed to build list appointments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		var appointment models.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.VisitorName,
			&appointment.VisitorContact,
			&appointment.Purpose,
			&appointment.Date,
			&appointment.Time,
			&appointment.StaffID,
			&appointment.CreatedAt,
		); err != nil {
			return nil, err
		}
		appointments = append(appointments, &appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

// Count returns the total number of appointments
func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting appointments: %w", err)
	}

	return count, nil
}
