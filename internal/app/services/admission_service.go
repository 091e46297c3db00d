package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

// AdmissionService handles enquiries and both admission paths. Admissions
// write the student, the fee ledger, the optional first payment, the enquiry
// status flip and the audit entry in one transaction.
type AdmissionService struct {
	enquiryRepo repositories.IEnquiryRepository
	studentRepo repositories.IStudentRepository
	feeRepo     repositories.IFeeRepository
	auditRepo   repositories.IAuditRepository
	transactor  db.Transactor
	logger      zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(
	enquiryRepo repositories.IEnquiryRepository,
	studentRepo repositories.IStudentRepository,
	feeRepo repositories.IFeeRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	logger zerolog.Logger,
) *AdmissionService {
	return &AdmissionService{
		enquiryRepo: enquiryRepo,
		studentRepo: studentRepo,
		feeRepo:     feeRepo,
		auditRepo:   auditRepo,
		transactor:  transactor,
		logger:      logger,
	}
}

// CreateEnquiry records a walk-in enquiry in NEW state.
func (s *AdmissionService) CreateEnquiry(ctx context.Context, actorID int64, req *dto.CreateEnquiryRequest) (*models.Enquiry, error) {
	enquiry := &models.Enquiry{
		Name:           strings.TrimSpace(req.Name),
		Contact:        strings.TrimSpace(req.Contact),
		CourseInterest: strings.TrimSpace(req.CourseInterest),
		Status:         models.EnquiryNew,
		JoiningDate:    req.JoiningDate,
	}
	if enquiry.Name == "" || enquiry.Contact == "" {
		return nil, apperrors.ErrValidationFailed
	}

	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.enquiryRepo.CreateTx(ctx, tx, enquiry); err != nil {
			return err
		}
		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionCreateEnquiry,
			Details: fmt.Sprintf("Enquiry #%d created for '%s'", enquiry.ID, enquiry.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	return enquiry, nil
}

// ListEnquiries returns a page of enquiries, newest first.
func (s *AdmissionService) ListEnquiries(ctx context.Context, page, size int) ([]*models.Enquiry, int64, error) {
	offset, limit := calcPage(page, size)
	enquiries, err := s.enquiryRepo.GetAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.enquiryRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return enquiries, total, nil
}

// CancelEnquiry marks an enquiry CANCELLED. Cancelling an already cancelled
// enquiry is idempotent; cancelling an admitted one is rejected because the
// student record already exists.
func (s *AdmissionService) CancelEnquiry(ctx context.Context, actorID, enquiryID int64) (*models.Enquiry, error) {
	var enquiry *models.Enquiry

	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		enquiry, err = s.enquiryRepo.GetByIDForUpdate(ctx, tx, enquiryID)
		if err != nil {
			return err
		}

		if !enquiry.CanCancel() {
			return apperrors.ErrEnquiryAdmitted
		}

		if enquiry.Status == models.EnquiryCancelled {
			// Idempotent repeat, nothing to write.
			return nil
		}

		if err := s.enquiryRepo.UpdateStatusTx(ctx, tx, enquiryID, models.EnquiryCancelled); err != nil {
			return err
		}
		enquiry.Status = models.EnquiryCancelled

		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionCancelEnquiry,
			Details: fmt.Sprintf("Enquiry #%d cancelled", enquiryID),
		})
	})
	if err != nil {
		return nil, err
	}

	return enquiry, nil
}

// AdmitStudent converts a NEW or CANCELLED enquiry into a student with a fee
// ledger. The enquiry row is locked for the duration so two concurrent
// admissions of the same enquiry serialize; the loser sees ADMITTED.
func (s *AdmissionService) AdmitStudent(ctx context.Context, actorID, enquiryID int64, req *dto.AdmitStudentRequest) (*dto.AdmissionResponse, error) {
	fee, err := s.buildFee(&req.Fee)
	if err != nil {
		return nil, err
	}

	student := buildStudent(&req.Student)
	student.EnquiryID = &enquiryID

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		enquiry, err := s.enquiryRepo.GetByIDForUpdate(ctx, tx, enquiryID)
		if err != nil {
			return err
		}

		if !enquiry.CanAdmit() {
			return apperrors.ErrEnquiryAlreadyAdmitted
		}

		if err := s.studentRepo.CreateTx(ctx, tx, student); err != nil {
			return err
		}

		fee.StudentID = student.ID
		if err := s.createLedgerTx(ctx, tx, fee, req.Fee.FirstPaymentAmount); err != nil {
			return err
		}

		if err := s.enquiryRepo.UpdateStatusTx(ctx, tx, enquiryID, models.EnquiryAdmitted); err != nil {
			return err
		}

		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionAdmitStudent,
			Details: fmt.Sprintf("Enquiry #%d admitted as student #%d", enquiryID, student.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enquiryID", enquiryID).Int64("studentID", student.ID).Msg("Enquiry admitted")
	return &dto.AdmissionResponse{EnquiryID: enquiryID, Student: student, Fee: fee}, nil
}

// DirectAdmission admits a student without a prior enquiry. A synthetic
// enquiry is created already in ADMITTED state so every student still has
// an enquiry trail.
func (s *AdmissionService) DirectAdmission(ctx context.Context, actorID int64, req *dto.DirectAdmissionRequest) (*dto.AdmissionResponse, error) {
	fee, err := s.buildFee(&req.Fee)
	if err != nil {
		return nil, err
	}

	student := buildStudent(&req.Student)

	enquiry := &models.Enquiry{
		Name:           student.Name,
		Contact:        student.ContactNo,
		CourseInterest: strings.TrimSpace(req.CourseInterest),
		Status:         models.EnquiryAdmitted,
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.enquiryRepo.CreateTx(ctx, tx, enquiry); err != nil {
			return err
		}

		student.EnquiryID = &enquiry.ID
		if err := s.studentRepo.CreateTx(ctx, tx, student); err != nil {
			return err
		}

		fee.StudentID = student.ID
		if err := s.createLedgerTx(ctx, tx, fee, req.Fee.FirstPaymentAmount); err != nil {
			return err
		}

		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionDirectAdmission,
			Details: fmt.Sprintf("Student #%d admitted directly (enquiry #%d)", student.ID, enquiry.ID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Direct admission completed")
	return &dto.AdmissionResponse{EnquiryID: enquiry.ID, Student: student, Fee: fee}, nil
}

// GetStudent returns a student by id.
func (s *AdmissionService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// ListStudents returns a page of students, newest admission first.
func (s *AdmissionService) ListStudents(ctx context.Context, page, size int) ([]*models.Student, int64, error) {
	offset, limit := calcPage(page, size)
	students, err := s.studentRepo.GetAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// buildFee validates the fee portion of an admission request.
func (s *AdmissionService) buildFee(f *dto.FeeFields) (*models.Fee, error) {
	if f.TotalAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	plan := models.PaymentPlan(f.PaymentPlan)
	if !plan.IsValid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown payment plan '%s'", f.PaymentPlan))
	}
	if plan == models.PlanInstallments && (f.NumInstallments == nil || *f.NumInstallments <= 0) {
		return nil, apperrors.NewBadRequestError("installment plan requires a positive number of installments")
	}
	if f.FirstPaymentAmount < 0 || f.FirstPaymentAmount > f.TotalAmount {
		return nil, apperrors.ErrInvalidAmount
	}

	fee := &models.Fee{
		TotalAmount: f.TotalAmount,
		PaymentPlan: plan,
		Status:      models.FeePending,
	}
	if plan == models.PlanInstallments {
		fee.NumInstallments = f.NumInstallments
	}
	return fee, nil
}

// createLedgerTx writes the fee row, the optional first payment and the
// derived status inside the admission transaction.
func (s *AdmissionService) createLedgerTx(ctx context.Context, tx pgx.Tx, fee *models.Fee, firstPayment float64) error {
	fee.Status = models.DeriveFeeStatus(firstPayment, fee.TotalAmount)

	if err := s.feeRepo.CreateTx(ctx, tx, fee); err != nil {
		return err
	}

	if firstPayment > 0 {
		payment := &models.Payment{
			FeeID:       fee.ID,
			Amount:      firstPayment,
			PaymentDate: time.Now(),
			Notes:       "Admission payment",
		}
		if err := s.feeRepo.InsertPaymentTx(ctx, tx, payment); err != nil {
			return err
		}
	}

	fee.SetDerived(firstPayment)
	return nil
}

func buildStudent(f *dto.StudentFields) *models.Student {
	return &models.Student{
		Name:            strings.TrimSpace(f.Name),
		FatherName:      f.FatherName,
		Qualification:   f.Qualification,
		ContactNo:       strings.TrimSpace(f.ContactNo),
		FatherContactNo: f.FatherContactNo,
		DOB:             f.DOB,
		FullAddress:     f.FullAddress,
		ExamType:        f.ExamType,
		TargetExam:      f.TargetExam,
		DateOfAdmission: time.Now(),
	}
}

// calcPage mirrors helpers.CalculateOffsetLimit without importing the HTTP
// helper package into the service layer.
func calcPage(page, size int) (uint64, int) {
	if size <= 0 || size > 100 {
		size = 10
	}
	if page < 1 {
		page = 1
	}
	return uint64((page - 1) * size), size
}
