package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/db"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

// FeeService handles fee ledgers, payments and the financial report
type FeeService struct {
	feeRepo     repositories.IFeeRepository
	studentRepo repositories.IStudentRepository
	userRepo    repositories.IUserRepository
	auditRepo   repositories.IAuditRepository
	transactor  db.Transactor
	logger      zerolog.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(
	feeRepo repositories.IFeeRepository,
	studentRepo repositories.IStudentRepository,
	userRepo repositories.IUserRepository,
	auditRepo repositories.IAuditRepository,
	transactor db.Transactor,
	logger zerolog.Logger,
) *FeeService {
	return &FeeService{
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		transactor:  transactor,
		logger:      logger,
	}
}

// RecordPayment appends a payment to a fee ledger and recomputes the stored
// status from the full payment sum inside one transaction. The fee row is
// locked so concurrent payments against the same ledger serialize.
func (s *FeeService) RecordPayment(ctx context.Context, actorID, feeID int64, req *dto.RecordPaymentRequest) (*dto.FeeResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var fee *models.Fee

	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		fee, err = s.feeRepo.GetByIDForUpdate(ctx, tx, feeID)
		if err != nil {
			return err
		}

		payment := &models.Payment{
			FeeID:       feeID,
			Amount:      req.Amount,
			PaymentDate: req.PaymentDate,
			Notes:       req.Notes,
		}
		if err := s.feeRepo.InsertPaymentTx(ctx, tx, payment); err != nil {
			return err
		}

		paid, err := s.feeRepo.SumPaymentsTx(ctx, tx, feeID)
		if err != nil {
			return err
		}

		status := models.DeriveFeeStatus(paid, fee.TotalAmount)
		if err := s.feeRepo.UpdateStatusTx(ctx, tx, feeID, status); err != nil {
			return err
		}
		fee.SetDerived(paid)

		return s.auditRepo.CreateTx(ctx, tx, &models.AuditLog{
			UserID:  actorID,
			Action:  models.ActionRecordPayment,
			Details: fmt.Sprintf("Payment of %.2f recorded on fee #%d (status %s)", req.Amount, feeID, status),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("feeID", feeID).Float64("amount", req.Amount).Msg("Payment recorded")
	return s.GetFee(ctx, feeID)
}

// GetFee returns a fee ledger with its payments, derived totals and the
// projected next due date.
func (s *FeeService) GetFee(ctx context.Context, feeID int64) (*dto.FeeResponse, error) {
	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, err
	}

	paid, err := s.feeRepo.SumPayments(ctx, feeID)
	if err != nil {
		return nil, err
	}
	fee.SetDerived(paid)

	payments, err := s.feeRepo.GetPayments(ctx, feeID)
	if err != nil {
		return nil, err
	}

	resp := &dto.FeeResponse{
		ID:              fee.ID,
		StudentID:       fee.StudentID,
		TotalAmount:     fee.TotalAmount,
		PaymentPlan:     string(fee.PaymentPlan),
		NumInstallments: fee.NumInstallments,
		Status:          string(fee.Status),
		AmountPaid:      fee.AmountPaid,
		PendingAmount:   fee.PendingAmount,
		Payments:        payments,
	}

	lastDate, hasPayments, err := s.feeRepo.LastPaymentDate(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if due, ok := fee.NextDueDate(lastDate, hasPayments); ok {
		resp.NextDueDate = &due
	}

	return resp, nil
}

// ListFees returns a page of fee ledgers with derived totals.
func (s *FeeService) ListFees(ctx context.Context, page, size int) ([]*dto.FeeResponse, int64, error) {
	offset, limit := calcPage(page, size)
	fees, err := s.feeRepo.GetAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.FeeResponse, 0, len(fees))
	for _, fee := range fees {
		paid, err := s.feeRepo.SumPayments(ctx, fee.ID)
		if err != nil {
			return nil, 0, err
		}
		fee.SetDerived(paid)
		responses = append(responses, &dto.FeeResponse{
			ID:              fee.ID,
			StudentID:       fee.StudentID,
			TotalAmount:     fee.TotalAmount,
			PaymentPlan:     string(fee.PaymentPlan),
			NumInstallments: fee.NumInstallments,
			Status:          string(fee.Status),
			AmountPaid:      fee.AmountPaid,
			PendingAmount:   fee.PendingAmount,
		})
	}

	total, err := s.feeRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

// FinancialReport aggregates the institute's ledgers for the admin report.
func (s *FeeService) FinancialReport(ctx context.Context) (*dto.FinancialReportResponse, error) {
	collected, total, pendingLedgers, paidLedgers, err := s.feeRepo.AggregateTotals(ctx)
	if err != nil {
		return nil, err
	}

	students, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	staff, err := s.userRepo.CountStaff(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.FinancialReportResponse{
		TotalStudents:  students,
		TotalStaff:     staff,
		FeesCollected:  collected,
		FeesPending:    total - collected,
		FeesTotal:      total,
		LedgersPending: pendingLedgers,
		LedgersPaid:    paidLedgers,
	}, nil
}
