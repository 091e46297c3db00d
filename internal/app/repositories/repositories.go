package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	TokenRepository       *TokenRepository
	EnquiryRepository     *EnquiryRepository
	StudentRepository     *StudentRepository
	FeeRepository         *FeeRepository
	CourseRepository      *CourseRepository
	AppointmentRepository *AppointmentRepository
	AuditRepository       *AuditRepository
	SettingsRepository    *SettingsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		TokenRepository:       NewTokenRepository(db),
		EnquiryRepository:     NewEnquiryRepository(db),
		StudentRepository:     NewStudentRepository(db),
		FeeRepository:         NewFeeRepository(db),
		CourseRepository:      NewCourseRepository(db),
		AppointmentRepository: NewAppointmentRepository(db),
		AuditRepository:       NewAuditRepository(db),
		SettingsRepository:    NewSettingsRepository(db),
	}
}
