package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

var _ repositories.IAppointmentRepository = (*fakeAppointmentRepo)(nil)

func scheduleRequest(staffID int64) *dto.ScheduleAppointmentRequest {
	return &dto.ScheduleAppointmentRequest{
		VisitorName:    "Kemal Aydin",
		VisitorContact: "5550003",
		Purpose:        "Campus tour",
		Date:           time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Time:           "14:30",
		StaffID:        staffID,
	}
}

func seedStaffUser(t *testing.T, userRepo *fakeUserRepo) int64 {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: "teacher_one", Role: models.RoleStaff, IsActive: true}
	if err := userRepo.CreateTx(ctx, nil, user); err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}
	if err := userRepo.CreateStaffProfileTx(ctx, nil, &models.StaffProfile{UserID: user.ID}); err != nil {
		t.Fatalf("seeding staff profile failed: %v", err)
	}
	return user.ID
}

func TestScheduleAppointment(t *testing.T) {
	appointmentRepo := newFakeAppointmentRepo()
	userRepo := newFakeUserRepo()
	auditRepo := newFakeAuditRepo()
	service := NewAppointmentService(appointmentRepo, userRepo, auditRepo, &fakeTransactor{}, zerolog.Nop())
	staffID := seedStaffUser(t, userRepo)

	appointment, err := service.Schedule(context.Background(), 1, scheduleRequest(staffID))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if appointment.ID == 0 {
		t.Error("scheduled appointment should carry its id")
	}
	if got := auditRepo.actionsRecorded(); len(got) != 1 || got[0] != models.ActionScheduleVisit {
		t.Errorf("audit actions = %v, want exactly one SCHEDULE_APPOINTMENT", got)
	}
}

func TestScheduleAppointmentUnknownStaff(t *testing.T) {
	appointmentRepo := newFakeAppointmentRepo()
	service := NewAppointmentService(appointmentRepo, newFakeUserRepo(), newFakeAuditRepo(), &fakeTransactor{}, zerolog.Nop())

	_, err := service.Schedule(context.Background(), 1, scheduleRequest(42))
	if !errors.Is(err, apperrors.ErrStaffNotFound) {
		t.Fatalf("error = %v, want ErrStaffNotFound", err)
	}
	if count, _ := appointmentRepo.Count(context.Background()); count != 0 {
		t.Error("rejected schedule must not persist an appointment")
	}
}

func TestScheduleAppointmentAuditFailureRollsBack(t *testing.T) {
	appointmentRepo := newFakeAppointmentRepo()
	userRepo := newFakeUserRepo()
	transactor := &rollbackTransactor{repos: []snapshotter{appointmentRepo}}
	service := NewAppointmentService(appointmentRepo, userRepo, &failingAuditRepo{}, transactor, zerolog.Nop())
	staffID := seedStaffUser(t, userRepo)

	if _, err := service.Schedule(context.Background(), 1, scheduleRequest(staffID)); err == nil {
		t.Fatal("expected the audit failure to surface")
	}

	if count, _ := appointmentRepo.Count(context.Background()); count != 0 {
		t.Fatalf("appointment survived a failed audit write: %d row(s) persisted", count)
	}
}

func TestScheduleAppointmentValidation(t *testing.T) {
	service := NewAppointmentService(newFakeAppointmentRepo(), newFakeUserRepo(), newFakeAuditRepo(), &fakeTransactor{}, zerolog.Nop())

	req := scheduleRequest(1)
	req.VisitorName = "  "
	if _, err := service.Schedule(context.Background(), 1, req); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("blank visitor error = %v, want ErrValidationFailed", err)
	}
}
