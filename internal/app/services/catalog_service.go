package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

// CatalogService handles the course and subject catalog
type CatalogService struct {
	courseRepo repositories.ICourseRepository
	auditRepo  repositories.IAuditRepository
	transactor db.Transactor
	logger     zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	courseRepo repositories.ICourseRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		courseRepo: courseRepo,
		auditRepo:  auditRepo,
		transactor: transactor,
		logger:     logger,
	}
}

// ListCourses returns every course with its subjects.
func (s *CatalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, course := range courses {
		subjects, err := s.courseRepo.GetSubjectsByCourseID(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		course.Subjects = subjects
	}

	return courses, nil
}

// CreateCourse adds a course. Duplicate names are rejected, exact match.
func (s *CatalogService) CreateCourse(ctx context.Context, actorID int64, name string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrValidationFailed
	}

	course := &models.Course{Name: name}
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.CreateTx(ctx, tx, course); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionCreateCourse,
			Details: fmt.Sprintf("Course '%s' created", name),
		})
	})
	if err != nil {
		return nil, err
	}

	return course, nil
}

// RenameCourse renames a course.
func (s *CatalogService) RenameCourse(ctx context.Context, actorID, courseID int64, name string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrValidationFailed
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.Rename(ctx, tx, courseID, name); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionRenameCourse,
			Details: fmt.Sprintf("Course '%s' renamed to '%s'", course.Name, name),
		})
	})
	if err != nil {
		return nil, err
	}

	course.Name = name
	return course, nil
}

// DeleteCourse removes a course and all its subjects in one transaction.
func (s *CatalogService) DeleteCourse(ctx context.Context, actorID, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	return s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.DeleteCascadeTx(ctx, tx, courseID); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionDeleteCourse,
			Details: fmt.Sprintf("Course '%s' deleted with its subjects", course.Name),
		})
	})
}

// CreateSubject adds a subject under an existing course.
func (s *CatalogService) CreateSubject(ctx context.Context, actorID, courseID int64, name string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrValidationFailed
	}

	subject := &models.Subject{Name: name, CourseID: courseID}
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.CreateSubjectTx(ctx, tx, subject); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionCreateSubject,
			Details: fmt.Sprintf("Subject '%s' added to course #%d", name, courseID),
		})
	})
	if err != nil {
		return nil, err
	}

	return subject, nil
}

// RenameSubject renames a subject.
func (s *CatalogService) RenameSubject(ctx context.Context, actorID, subjectID int64, name string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrValidationFailed
	}

	subject, err := s.courseRepo.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.RenameSubject(ctx, tx, subjectID, name); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionRenameSubject,
			Details: fmt.Sprintf("Subject '%s' renamed to '%s'", subject.Name, name),
		})
	})
	if err != nil {
		return nil, err
	}

	subject.Name = name
	return subject, nil
}

// DeleteSubject removes a single subject.
func (s *CatalogService) DeleteSubject(ctx context.Context, actorID, subjectID int64) error {
	subject, err := s.courseRepo.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return err
	}

	return s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.courseRepo.DeleteSubjectTx(ctx, tx, subjectID); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionDeleteSubject,
			Details: fmt.Sprintf("Subject '%s' deleted from course #%d", subject.Name, subject.CourseID),
		})
	})
}
