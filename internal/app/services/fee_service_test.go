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

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)

type feeFixture struct {
	service   *FeeService
	feeRepo   *fakeFeeRepo
	auditRepo *fakeAuditRepo
}

func newFeeFixture() *feeFixture {
	feeRepo := newFakeFeeRepo()
	auditRepo := newFakeAuditRepo()
	service := NewFeeService(feeRepo, newFakeStudentRepo(), newFakeUserRepo(), auditRepo, &fakeTransactor{}, zerolog.Nop())
	return &feeFixture{service: service, feeRepo: feeRepo, auditRepo: auditRepo}
}

func (f *feeFixture) seedLedger(t *testing.T, total float64, installments *int) *models.Fee {
	t.Helper()
	plan := models.PlanLumpSum
	if installments != nil {
		plan = models.PlanInstallments
	}
	fee := &models.Fee{
		StudentID:       1,
		TotalAmount:     total,
		PaymentPlan:     plan,
		NumInstallments: installments,
		Status:          models.FeePending,
	}
	if err := f.feeRepo.CreateTx(context.Background(), nil, fee); err != nil {
		t.Fatalf("seeding ledger failed: %v", err)
	}
	return fee
}

func paymentAt(amount float64, date time.Time) *dto.RecordPaymentRequest {
	return &dto.RecordPaymentRequest{Amount: amount, PaymentDate: date}
}

func TestRecordPaymentStatusProgression(t *testing.T) {
	f := newFeeFixture()
	fee := f.seedLedger(t, 9000, nil)
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	resp, err := f.service.RecordPayment(ctx, 1, fee.ID, paymentAt(3000, day))
	if err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if resp.Status != string(models.FeePartiallyPaid) {
		t.Errorf("status after partial payment = %s, want %s", resp.Status, models.FeePartiallyPaid)
	}
	if resp.AmountPaid != 3000 || resp.PendingAmount != 6000 {
		t.Errorf("derived amounts = %v paid / %v pending, want 3000/6000", resp.AmountPaid, resp.PendingAmount)
	}

	resp, err = f.service.RecordPayment(ctx, 1, fee.ID, paymentAt(6000, day.AddDate(0, 1, 0)))
	if err != nil {
		t.Fatalf("final payment failed: %v", err)
	}
	if resp.Status != string(models.FeePaid) {
		t.Errorf("status after full payment = %s, want %s", resp.Status, models.FeePaid)
	}
	if resp.PendingAmount != 0 {
		t.Errorf("pending after full payment = %v, want 0", resp.PendingAmount)
	}

	if got := f.auditRepo.actionsRecorded(); len(got) != 2 {
		t.Errorf("audit entries = %d, want one per payment", len(got))
	}
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	f := newFeeFixture()
	fee := f.seedLedger(t, 9000, nil)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, amount := range []float64{0, -100} {
		_, err := f.service.RecordPayment(context.Background(), 1, fee.ID, paymentAt(amount, day))
		if !errors.Is(err, apperrors.ErrInvalidAmount) {
			t.Errorf("amount %v: error = %v, want ErrInvalidAmount", amount, err)
		}
	}

	payments, _ := f.feeRepo.GetPayments(context.Background(), fee.ID)
	if len(payments) != 0 {
		t.Error("rejected payments must not be persisted")
	}
	if count, _ := f.auditRepo.Count(context.Background()); count != 0 {
		t.Error("rejected payments must not write audit entries")
	}
}

func TestRecordPaymentUnknownLedger(t *testing.T) {
	f := newFeeFixture()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.service.RecordPayment(context.Background(), 1, 42, paymentAt(100, day))
	if !errors.Is(err, apperrors.ErrFeeNotFound) {
		t.Fatalf("error = %v, want ErrFeeNotFound", err)
	}
}

func TestGetFeeProjectsNextDueDate(t *testing.T) {
	f := newFeeFixture()
	n := 12
	fee := f.seedLedger(t, 12000, &n)
	ctx := context.Background()

	paymentDay := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := f.service.RecordPayment(ctx, 1, fee.ID, paymentAt(1000, paymentDay)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	resp, err := f.service.GetFee(ctx, fee.ID)
	if err != nil {
		t.Fatalf("GetFee failed: %v", err)
	}
	if resp.NextDueDate == nil {
		t.Fatal("installment plan with a payment should project a next due date")
	}
	want := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	if !resp.NextDueDate.Equal(want) {
		t.Errorf("next due date = %s, want %s", resp.NextDueDate.Format(time.DateOnly), want.Format(time.DateOnly))
	}
}

func TestGetFeeLumpSumHasNoDueDate(t *testing.T) {
	f := newFeeFixture()
	fee := f.seedLedger(t, 5000, nil)
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.service.RecordPayment(ctx, 1, fee.ID, paymentAt(1000, day)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	resp, err := f.service.GetFee(ctx, fee.ID)
	if err != nil {
		t.Fatalf("GetFee failed: %v", err)
	}
	if resp.NextDueDate != nil {
		t.Error("lump sum ledgers do not project a due date")
	}
}

func TestFinancialReport(t *testing.T) {
	feeRepo := newFakeFeeRepo()
	studentRepo := newFakeStudentRepo()
	userRepo := newFakeUserRepo()
	service := NewFeeService(feeRepo, studentRepo, userRepo, newFakeAuditRepo(), &fakeTransactor{}, zerolog.Nop())
	ctx := context.Background()

	users := []struct {
		username string
		role     models.Role
	}{
		{"teacher_one", models.RoleStaff},
		{"teacher_two", models.RoleStaff},
		{"front_desk", models.RoleReceptionist},
	}
	for _, u := range users {
		user := &models.User{Username: u.username, Role: u.role, IsActive: true}
		if err := userRepo.CreateTx(ctx, nil, user); err != nil {
			t.Fatalf("seeding user failed: %v", err)
		}
		if u.role == models.RoleStaff {
			if err := userRepo.CreateStaffProfileTx(ctx, nil, &models.StaffProfile{UserID: user.ID}); err != nil {
				t.Fatalf("seeding staff profile failed: %v", err)
			}
		}
	}

	for i := 0; i < 2; i++ {
		student := &models.Student{Name: "Student", ContactNo: "555"}
		if err := studentRepo.CreateTx(ctx, nil, student); err != nil {
			t.Fatalf("seeding student failed: %v", err)
		}
		fee := &models.Fee{StudentID: student.ID, TotalAmount: 10000, PaymentPlan: models.PlanLumpSum, Status: models.FeePending}
		if err := feeRepo.CreateTx(ctx, nil, fee); err != nil {
			t.Fatalf("seeding fee failed: %v", err)
		}
	}

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := service.RecordPayment(ctx, 1, 1, paymentAt(10000, day)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if _, err := service.RecordPayment(ctx, 1, 2, paymentAt(2500, day)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	report, err := service.FinancialReport(ctx)
	if err != nil {
		t.Fatalf("FinancialReport failed: %v", err)
	}

	if report.TotalStudents != 2 {
		t.Errorf("total students = %d, want 2", report.TotalStudents)
	}
	if report.TotalStaff != 2 {
		t.Errorf("total staff = %d, want 2", report.TotalStaff)
	}
	if report.FeesCollected != 12500 {
		t.Errorf("fees collected = %v, want 12500", report.FeesCollected)
	}
	if report.FeesTotal != 20000 {
		t.Errorf("fees total = %v, want 20000", report.FeesTotal)
	}
	if report.FeesPending != 7500 {
		t.Errorf("fees pending = %v, want 7500", report.FeesPending)
	}
	if report.LedgersPaid != 1 || report.LedgersPending != 1 {
		t.Errorf("ledgers paid/pending = %d/%d, want 1/1", report.LedgersPaid, report.LedgersPending)
	}
}
