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

// IStudentRepository defines student persistence operations
type IStudentRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Student, error)
	Count(ctx context.Context) (int64, error)
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

const studentColumns = `id, name, father_name, qualification, contact_no, father_contact_no,
	dob, full_address, exam_type, target_exam, date_of_admission, enquiry_id`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.FatherName,
		&student.Qualification,
		&student.ContactNo,
		&student.FatherContactNo,
		&student.DOB,
		&student.FullAddress,
		&student.ExamType,
		&student.TargetExam,
		&student.DateOfAdmission,
		&student.EnquiryID,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// CreateTx inserts a new student within a transaction. The unique constraint
// on enquiry_id guarantees at most one student per enquiry.
func (r *StudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	query := `
		INSERT INTO students (name, father_name, qualification, contact_no, father_contact_no,
			dob, full_address, exam_type, target_exam, date_of_admission, enquiry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		student.Name,
		student.FatherName,
		student.Qualification,
		student.ContactNo,
		student.FatherContactNo,
		student.DOB,
		student.FullAddress,
		student.ExamType,
		student.TargetExam,
		student.DateOfAdmission,
		student.EnquiryID,
	).Scan(&student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_enquiry_id_key") {
			return apperrors.ErrEnquiryAlreadyAdmitted
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetAll retrieves students newest admission first with a page window
func (r *StudentRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY date_of_admission DESC, id DESC OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Count returns the total number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return count, nil
}
