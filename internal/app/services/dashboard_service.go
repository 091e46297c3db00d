package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
)

// DashboardService builds the role landing payloads
type DashboardService struct {
	studentRepo     repositories.IStudentRepository
	enquiryRepo     repositories.IEnquiryRepository
	userRepo        repositories.IUserRepository
	appointmentRepo repositories.IAppointmentRepository
	feeRepo         repositories.IFeeRepository
	courseRepo      repositories.ICourseRepository
	logger          zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	studentRepo repositories.IStudentRepository,
	enquiryRepo repositories.IEnquiryRepository,
	userRepo repositories.IUserRepository,
	appointmentRepo repositories.IAppointmentRepository,
	feeRepo repositories.IFeeRepository,
	courseRepo repositories.ICourseRepository,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		studentRepo:     studentRepo,
		enquiryRepo:     enquiryRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		feeRepo:         feeRepo,
		courseRepo:      courseRepo,
		logger:          logger,
	}
}

// AdminDashboard returns the headline counts for the admin landing page.
func (s *DashboardService) AdminDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	students, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	enquiries, err := s.enquiryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.userRepo.CountStaff(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointmentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	collected, total, _, _, err := s.feeRepo.AggregateTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalStudents:     students,
		TotalEnquiries:    enquiries,
		TotalStaff:        staff,
		TotalAppointments: appointments,
		FeesCollected:     collected,
		FeesPending:       total - collected,
	}, nil
}

// StaffHome returns the landing payload for a STAFF user.
func (s *DashboardService) StaffHome(ctx context.Context, username string) (*dto.StaffHomeResponse, error) {
	students, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StaffHomeResponse{
		Username:      username,
		TotalStudents: students,
		TotalCourses:  len(courses),
	}, nil
}
