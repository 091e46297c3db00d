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

// ICourseRepository defines catalog persistence operations
type ICourseRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Rename(ctx context.Context, tx pgx.Tx, id int64, name string) error
	DeleteCascadeTx(ctx context.Context, tx pgx.Tx, id int64) error
	CreateSubjectTx(ctx context.Context, tx pgx.Tx, subject *models.Subject) error
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	GetSubjectsByCourseID(ctx context.Context, courseID int64) ([]*models.Subject, error)
	RenameSubject(ctx context.Context, tx pgx.Tx, id int64, name string) error
	DeleteSubjectTx(ctx context.Context, tx pgx.Tx, id int64) error
}

// CourseRepository handles database operations for courses and subjects
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// CreateTx inserts a new course within a transaction. Course names are
// unique, case-sensitive.
func (r *CourseRepository) CreateTx(ctx context.Context, tx pgx.Tx, course *models.Course) error {
	query := `INSERT INTO courses (name) VALUES ($1) RETURNING id`

	err := tx.QueryRow(ctx, query, course.Name).Scan(&course.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_name_key") {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRow(ctx, `SELECT id, name FROM courses WHERE id = $1`, id).
		Scan(&course.ID, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetAll retrieves all courses ordered by name
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM courses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Rename updates a course name within a transaction
func (r *CourseRepository) Rename(ctx context.Context, tx pgx.Tx, id int64, name string) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE courses SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_name_key") {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error renaming course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// DeleteCascadeTx deletes a course and all its subjects in one transaction.
// Students and enquiries reference courses by name, not id, so they are
// unaffected.
func (r *CourseRepository) DeleteCascadeTx(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM subjects WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting course subjects: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// CreateSubjectTx inserts a new subject under a course within a transaction
func (r *CourseRepository) CreateSubjectTx(ctx context.Context, tx pgx.Tx, subject *models.Subject) error {
	query := `INSERT INTO subjects (name, course_id) VALUES ($1, $2) RETURNING id`

	err := tx.QueryRow(ctx, query, subject.Name, subject.CourseID).Scan(&subject.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "subjects_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetSubjectByID retrieves a subject by ID
func (r *CourseRepository) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.QueryRow(ctx, `SELECT id, name, course_id FROM subjects WHERE id = $1`, id).
		Scan(&subject.ID, &subject.Name, &subject.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// GetSubjectsByCourseID retrieves all subjects under a course
func (r *CourseRepository) GetSubjectsByCourseID(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, course_id FROM subjects WHERE course_id = $1 ORDER BY name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.CourseID); err != nil {
			return nil, err
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// RenameSubject updates a subject name within a transaction
func (r *CourseRepository) RenameSubject(ctx context.Context, tx pgx.Tx, id int64, name string) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE subjects SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("error renaming subject: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// DeleteSubjectTx deletes a subject within a transaction
func (r *CourseRepository) DeleteSubjectTx(ctx context.Context, tx pgx.Tx, id int64) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}
