package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/models/dto"
	"github.com/emre/akademix/internal/app/repositories"
	"github.com/emre/akademix/internal/pkg/apperrors"
)

var (
	_ repositories.IEnquiryRepository = (*fakeEnquiryRepo)(nil)
	_ repositories.IStudentRepository = (*fakeStudentRepo)(nil)
	_ repositories.IFeeRepository     = (*fakeFeeRepo)(nil)
	_ repositories.IAuditRepository   = (*fakeAuditRepo)(nil)
)

type admissionFixture struct {
	service     *AdmissionService
	enquiryRepo *fakeEnquiryRepo
	studentRepo *fakeStudentRepo
	feeRepo     *fakeFeeRepo
	auditRepo   *fakeAuditRepo
}

func newAdmissionFixture() *admissionFixture {
	enquiryRepo := newFakeEnquiryRepo()
	studentRepo := newFakeStudentRepo()
	feeRepo := newFakeFeeRepo()
	auditRepo := newFakeAuditRepo()
	service := NewAdmissionService(enquiryRepo, studentRepo, feeRepo, auditRepo, &fakeTransactor{}, zerolog.Nop())
	return &admissionFixture{
		service:     service,
		enquiryRepo: enquiryRepo,
		studentRepo: studentRepo,
		feeRepo:     feeRepo,
		auditRepo:   auditRepo,
	}
}

func validAdmitRequest() *dto.AdmitStudentRequest {
	return &dto.AdmitStudentRequest{
		Student: dto.StudentFields{
			Name:      "Ayse Demir",
			ContactNo: "5550001",
		},
		Fee: dto.FeeFields{
			TotalAmount: 10000,
			PaymentPlan: string(models.PlanLumpSum),
		},
	}
}

func (f *admissionFixture) createEnquiry(t *testing.T) *models.Enquiry {
	t.Helper()
	enquiry, err := f.service.CreateEnquiry(context.Background(), 1, &dto.CreateEnquiryRequest{
		Name:           "Ayse Demir",
		Contact:        "5550001",
		CourseInterest: "Mathematics",
	})
	if err != nil {
		t.Fatalf("CreateEnquiry failed: %v", err)
	}
	return enquiry
}

func TestCreateEnquiry(t *testing.T) {
	f := newAdmissionFixture()

	enquiry := f.createEnquiry(t)

	if enquiry.Status != models.EnquiryNew {
		t.Errorf("new enquiry status = %s, want %s", enquiry.Status, models.EnquiryNew)
	}
	if got := f.auditRepo.actionsRecorded(); len(got) != 1 || got[0] != models.ActionCreateEnquiry {
		t.Errorf("audit actions = %v, want exactly one CREATE_ENQUIRY", got)
	}
}

func TestAdmitStudent(t *testing.T) {
	f := newAdmissionFixture()
	enquiry := f.createEnquiry(t)

	resp, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, validAdmitRequest())
	if err != nil {
		t.Fatalf("AdmitStudent failed: %v", err)
	}

	stored, _ := f.enquiryRepo.GetByID(context.Background(), enquiry.ID)
	if stored.Status != models.EnquiryAdmitted {
		t.Errorf("enquiry status after admit = %s, want %s", stored.Status, models.EnquiryAdmitted)
	}

	student := resp.Student.(*models.Student)
	if student.EnquiryID == nil || *student.EnquiryID != enquiry.ID {
		t.Error("student should reference the admitted enquiry")
	}

	fee := resp.Fee.(*models.Fee)
	if fee.Status != models.FeePending {
		t.Errorf("fee status without first payment = %s, want %s", fee.Status, models.FeePending)
	}
}

func TestAdmitStudentWithFirstPayment(t *testing.T) {
	f := newAdmissionFixture()
	enquiry := f.createEnquiry(t)

	req := validAdmitRequest()
	req.Fee.FirstPaymentAmount = 4000

	resp, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, req)
	if err != nil {
		t.Fatalf("AdmitStudent failed: %v", err)
	}

	fee := resp.Fee.(*models.Fee)
	if fee.Status != models.FeePartiallyPaid {
		t.Errorf("fee status = %s, want %s", fee.Status, models.FeePartiallyPaid)
	}
	if fee.AmountPaid != 4000 || fee.PendingAmount != 6000 {
		t.Errorf("derived amounts = %v paid / %v pending, want 4000/6000", fee.AmountPaid, fee.PendingAmount)
	}

	payments, _ := f.feeRepo.GetPayments(context.Background(), fee.ID)
	if len(payments) != 1 {
		t.Fatalf("payments recorded = %d, want 1", len(payments))
	}
}

func TestAdmitStudentTwiceRejected(t *testing.T) {
	f := newAdmissionFixture()
	enquiry := f.createEnquiry(t)

	if _, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, validAdmitRequest()); err != nil {
		t.Fatalf("first admit failed: %v", err)
	}

	auditsBefore, _ := f.auditRepo.Count(context.Background())

	_, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, validAdmitRequest())
	if !errors.Is(err, apperrors.ErrEnquiryAlreadyAdmitted) {
		t.Fatalf("second admit error = %v, want ErrEnquiryAlreadyAdmitted", err)
	}

	if after, _ := f.auditRepo.Count(context.Background()); after != auditsBefore {
		t.Error("rejected admit must not write an audit entry")
	}
	if count, _ := f.studentRepo.Count(context.Background()); count != 1 {
		t.Errorf("student count after rejected admit = %d, want 1", count)
	}
}

func TestAdmitCancelledEnquiry(t *testing.T) {
	f := newAdmissionFixture()
	enquiry := f.createEnquiry(t)

	if _, err := f.service.CancelEnquiry(context.Background(), 1, enquiry.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// A cancelled enquiry can still be admitted; only ADMITTED is terminal.
	if _, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, validAdmitRequest()); err != nil {
		t.Fatalf("admit after cancel failed: %v", err)
	}
}

func TestCancelEnquiryIdempotent(t *testing.T) {
	f := newAdmissionFixture()
	enquiry := f.createEnquiry(t)

	if _, err := f.service.CancelEnquiry(context.Background(), 1, enquiry.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	auditsAfterFirst, _ := f.auditRepo.Count(context.Background())

	result, err := f.service.CancelEnquiry(context.Background(), 1, enquiry.ID)
	if err != nil {
		t.Fatalf("repeat cancel should succeed, got %v", err)
	}
	if result.Status != models.EnquiryCancelled {
		t.Errorf("status after repeat cancel = %s, want %s", result.Status, models.EnquiryCancelled)
	}

	if after, _ := f.auditRepo.Count(context.Background()); after != auditsAfterFirst {
		t.Error("idempotent repeat cancel must not write a second audit entry")
	}
}

func TestCancelAdmittedEnquiryRejected(t *testing.T) {
	f := newAdmissionFixture()
	enquiry := f.createEnquiry(t)

	if _, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, validAdmitRequest()); err != nil {
		t.Fatalf("admit failed: %v", err)
	}

	_, err := f.service.CancelEnquiry(context.Background(), 1, enquiry.ID)
	if !errors.Is(err, apperrors.ErrEnquiryAdmitted) {
		t.Fatalf("cancel after admit error = %v, want ErrEnquiryAdmitted", err)
	}
}

func TestDirectAdmission(t *testing.T) {
	f := newAdmissionFixture()

	req := &dto.DirectAdmissionRequest{
		Student: dto.StudentFields{
			Name:      "Mehmet Kaya",
			ContactNo: "5550002",
		},
		Fee: dto.FeeFields{
			TotalAmount: 8000,
			PaymentPlan: string(models.PlanInstallments),
			NumInstallments: func() *int {
				n := 4
				return &n
			}(),
		},
		CourseInterest: "Physics",
	}

	resp, err := f.service.DirectAdmission(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("DirectAdmission failed: %v", err)
	}

	enquiry, _ := f.enquiryRepo.GetByID(context.Background(), resp.EnquiryID)
	if enquiry.Status != models.EnquiryAdmitted {
		t.Errorf("synthesized enquiry status = %s, want %s", enquiry.Status, models.EnquiryAdmitted)
	}

	if got := f.auditRepo.actionsRecorded(); len(got) != 1 || got[0] != models.ActionDirectAdmission {
		t.Errorf("audit actions = %v, want exactly one DIRECT_ADMISSION", got)
	}
}

func TestAdmissionFeeValidation(t *testing.T) {
	f := newAdmissionFixture()

	tests := []struct {
		name    string
		mutate  func(*dto.AdmitStudentRequest)
		wantErr error
	}{
		{
			name:    "zero total",
			mutate:  func(r *dto.AdmitStudentRequest) { r.Fee.TotalAmount = 0 },
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "negative total",
			mutate:  func(r *dto.AdmitStudentRequest) { r.Fee.TotalAmount = -500 },
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "first payment above total",
			mutate:  func(r *dto.AdmitStudentRequest) { r.Fee.FirstPaymentAmount = 999999 },
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:   "installments without count",
			mutate: func(r *dto.AdmitStudentRequest) { r.Fee.PaymentPlan = string(models.PlanInstallments) },
		},
		{
			name:   "unknown plan",
			mutate: func(r *dto.AdmitStudentRequest) { r.Fee.PaymentPlan = "WEEKLY" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enquiry := f.createEnquiry(t)
			req := validAdmitRequest()
			tt.mutate(req)

			_, err := f.service.AdmitStudent(context.Background(), 1, enquiry.ID, req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if count, _ := f.studentRepo.Count(context.Background()); count != 0 {
				t.Error("rejected admission must not create a student")
			}
		})
	}
}
