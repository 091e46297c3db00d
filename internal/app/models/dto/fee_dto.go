package dto

import "time"

// RecordPaymentRequest appends one payment to a fee ledger.
type RecordPaymentRequest struct {
	Amount      float64   `json:"amount" binding:"required"`
	PaymentDate time.Time `json:"paymentDate" binding:"required"`
	Notes       string    `json:"notes"`
}

// FeeResponse is a fee ledger with its derived totals.
type FeeResponse struct {
	ID              int64       `json:"id"`
	StudentID       int64       `json:"studentId"`
	TotalAmount     float64     `json:"totalAmount"`
	PaymentPlan     string      `json:"paymentPlan"`
	NumInstallments *int        `json:"numInstallments,omitempty"`
	Status          string      `json:"status"`
	AmountPaid      float64     `json:"amountPaid"`
	PendingAmount   float64     `json:"pendingAmount"`
	NextDueDate     *time.Time  `json:"nextDueDate,omitempty"`
	Payments        interface{} `json:"payments,omitempty"`
}

// FinancialReportResponse aggregates the fee ledgers for the admin report.
type FinancialReportResponse struct {
	TotalStudents  int64   `json:"totalStudents"`
	TotalStaff     int64   `json:"totalStaff"`
	FeesCollected  float64 `json:"feesCollected"`
	FeesPending    float64 `json:"feesPending"`
	FeesTotal      float64 `json:"feesTotal"`
	LedgersPending int64   `json:"ledgersPending"`
	LedgersPaid    int64   `json:"ledgersPaid"`
}
