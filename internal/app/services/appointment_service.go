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

// AppointmentService handles the visitor appointment book
type AppointmentService struct {
	appointmentRepo repositories.IAppointmentRepository
	userRepo        repositories.IUserRepository
	auditRepo       repositories.IAuditRepository
	transactor      db.Transactor
	logger          zerolog.Logger
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(
	appointmentRepo repositories.IAppointmentRepository,
	userRepo repositories.IUserRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	logger zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		transactor:      transactor,
		logger:          logger,
	}
}

// Schedule books a visitor slot with a staff member. The referenced staff
// profile must exist; overlapping slots are accepted.
func (s *AppointmentService) Schedule(ctx context.Context, actorID int64, req *dto.ScheduleAppointmentRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.VisitorName) == "" || strings.TrimSpace(req.Time) == "" {
		return nil, apperrors.ErrValidationFailed
	}

	exists, err := s.userRepo.StaffExists(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrStaffNotFound
	}

	appointment := &models.Appointment{
		VisitorName:    strings.TrimSpace(req.VisitorName),
		VisitorContact: req.VisitorContact,
		Purpose:        req.Purpose,
		Date:           req.Date,
		Time:           req.Time,
		StaffID:        req.StaffID,
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.appointmentRepo.CreateTx(ctx, tx, appointment); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionScheduleVisit,
			Details: fmt.Sprintf("Appointment #%d scheduled for '%s' with staff #%d", appointment.ID, appointment.VisitorName, appointment.StaffID),
		})
	})
	if err != nil {
		return nil, err
	}

	return appointment, nil
}

// List returns a page of appointments, most recent slot first.
func (s *AppointmentService) List(ctx context.Context, page, size int) ([]*models.Appointment, int64, error) {
	offset, limit := calcPage(page, size)
	appointments, err := s.appointmentRepo.GetAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.appointmentRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}
