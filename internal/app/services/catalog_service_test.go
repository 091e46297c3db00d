package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

var (
	_ repositories.ICourseRepository = (*fakeCourseRepo)(nil)
	_ repositories.IAuditRepository  = (*failingAuditRepo)(nil)
)

func TestCreateCourse(t *testing.T) {
	courseRepo := newFakeCourseRepo()
	auditRepo := newFakeAuditRepo()
	service := NewCatalogService(courseRepo, auditRepo, &fakeTransactor{}, zerolog.Nop())
	ctx := context.Background()

	course, err := service.CreateCourse(ctx, 1, "NEET-UG")
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	if course.ID == 0 {
		t.Error("created course should carry its id")
	}
	if got := auditRepo.actionsRecorded(); len(got) != 1 || got[0] != models.ActionCreateCourse {
		t.Errorf("audit actions = %v, want exactly one CREATE_COURSE", got)
	}

	_, err = service.CreateCourse(ctx, 1, "NEET-UG")
	if !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
		t.Fatalf("duplicate name error = %v, want ErrCourseAlreadyExists", err)
	}

	_, err = service.CreateCourse(ctx, 1, "   ")
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("blank name error = %v, want ErrValidationFailed", err)
	}
}

func TestCreateCourseAuditFailureRollsBack(t *testing.T) {
	courseRepo := newFakeCourseRepo()
	transactor := &rollbackTransactor{repos: []snapshotter{courseRepo}}
	service := NewCatalogService(courseRepo, &failingAuditRepo{}, transactor, zerolog.Nop())

	_, err := service.CreateCourse(context.Background(), 1, "NEET-UG")
	if err == nil {
		t.Fatal("expected the audit failure to surface")
	}

	courses, _ := courseRepo.GetAll(context.Background())
	if len(courses) != 0 {
		t.Fatalf("course survived a failed audit write: %d row(s) persisted", len(courses))
	}
}

func TestCreateSubjectAuditFailureRollsBack(t *testing.T) {
	courseRepo := newFakeCourseRepo()
	transactor := &rollbackTransactor{repos: []snapshotter{courseRepo}}
	ctx := context.Background()

	healthy := NewCatalogService(courseRepo, newFakeAuditRepo(), transactor, zerolog.Nop())
	course, err := healthy.CreateCourse(ctx, 1, "JEE")
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	broken := NewCatalogService(courseRepo, &failingAuditRepo{}, transactor, zerolog.Nop())
	if _, err := broken.CreateSubject(ctx, 1, course.ID, "Physics"); err == nil {
		t.Fatal("expected the audit failure to surface")
	}

	subjects, _ := courseRepo.GetSubjectsByCourseID(ctx, course.ID)
	if len(subjects) != 0 {
		t.Fatalf("subject survived a failed audit write: %d row(s) persisted", len(subjects))
	}
}

func TestCreateSubjectUnknownCourse(t *testing.T) {
	service := NewCatalogService(newFakeCourseRepo(), newFakeAuditRepo(), &fakeTransactor{}, zerolog.Nop())

	_, err := service.CreateSubject(context.Background(), 1, 99, "Physics")
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("error = %v, want ErrCourseNotFound", err)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	courseRepo := newFakeCourseRepo()
	auditRepo := newFakeAuditRepo()
	service := NewCatalogService(courseRepo, auditRepo, &fakeTransactor{}, zerolog.Nop())
	ctx := context.Background()

	course, err := service.CreateCourse(ctx, 1, "JEE")
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	if _, err := service.CreateSubject(ctx, 1, course.ID, "Physics"); err != nil {
		t.Fatalf("CreateSubject failed: %v", err)
	}

	if err := service.DeleteCourse(ctx, 1, course.ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}

	subjects, _ := courseRepo.GetSubjectsByCourseID(ctx, course.ID)
	if len(subjects) != 0 {
		t.Error("deleting a course should remove its subjects")
	}
	actions := auditRepo.actionsRecorded()
	if len(actions) != 3 || actions[2] != models.ActionDeleteCourse {
		t.Errorf("audit actions = %v, want DELETE_COURSE last", actions)
	}
}

func TestListCoursesIncludesSubjects(t *testing.T) {
	courseRepo := newFakeCourseRepo()
	service := NewCatalogService(courseRepo, newFakeAuditRepo(), &fakeTransactor{}, zerolog.Nop())
	ctx := context.Background()

	course, err := service.CreateCourse(ctx, 1, "NEET-UG")
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	for _, name := range []string{"Biology", "Chemistry"} {
		if _, err := service.CreateSubject(ctx, 1, course.ID, name); err != nil {
			t.Fatalf("CreateSubject failed: %v", err)
		}
	}

	courses, err := service.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) != 1 || len(courses[0].Subjects) != 2 {
		t.Fatalf("courses = %d with %d subjects, want 1 with 2", len(courses), len(courses[0].Subjects))
	}
}
