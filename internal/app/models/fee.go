package models

import (
	"math"
	"time"
)

// Fee is the running-balance ledger for one student: a fixed total amount,
// a payment plan and the append-only list of payments made against it.
// AmountPaid and PendingAmount are derived on read, never stored.
type Fee struct {
	ID              int64       `json:"id" db:"id"`
	StudentID       int64       `json:"studentId" db:"student_id"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	PaymentPlan     PaymentPlan `json:"paymentPlan" db:"payment_plan"`
	NumInstallments *int        `json:"numInstallments,omitempty" db:"num_installments"`
	Status          FeeStatus   `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`

	AmountPaid    float64    `json:"amountPaid" db:"-"`    // Derived: sum of payments
	PendingAmount float64    `json:"pendingAmount" db:"-"` // Derived: total - paid
	Payments      []*Payment `json:"payments,omitempty"`   // Relation, no db tag
	Student       *Student   `json:"student,omitempty"`    // Relation, no db tag
}

// Payment is one recorded transaction reducing a fee's pending amount.
// Payments are append-only; no operation edits or deletes them.
type Payment struct {
	ID          int64     `json:"id" db:"id"`
	FeeID       int64     `json:"feeId" db:"fee_id"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentDate time.Time `json:"paymentDate" db:"payment_date"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// DeriveFeeStatus computes the ledger status from the paid and total amounts:
// PAID once paid covers the total, PARTIALLY_PAID for any non-zero paid
// amount below it, PENDING otherwise. The rule is monotonic in practice
// because no refund path exists.
func DeriveFeeStatus(amountPaid, totalAmount float64) FeeStatus {
	switch {
	case amountPaid >= totalAmount:
		return FeePaid
	case amountPaid > 0:
		return FeePartiallyPaid
	default:
		return FeePending
	}
}

// SetDerived fills AmountPaid, PendingAmount and Status from the paid sum.
func (f *Fee) SetDerived(amountPaid float64) {
	f.AmountPaid = amountPaid
	f.PendingAmount = f.TotalAmount - amountPaid
	f.Status = DeriveFeeStatus(amountPaid, f.TotalAmount)
}

// NextDueDate projects the next installment due date from the most recent
// payment date: ceil(12 / numInstallments) months of 30 days each. The
// 30-day-month arithmetic mirrors the institute's existing schedule sheets
// and is intentionally not a true calendar month-add.
// Returns false when the fee is not on an installment plan or no payment
// has been recorded yet.
func (f *Fee) NextDueDate(lastPaymentDate time.Time, hasPayments bool) (time.Time, bool) {
	if f.PaymentPlan != PlanInstallments || !hasPayments {
		return time.Time{}, false
	}
	if f.NumInstallments == nil || *f.NumInstallments <= 0 {
		return time.Time{}, false
	}
	monthsPerInstallment := int(math.Ceil(12.0 / float64(*f.NumInstallments)))
	return lastPaymentDate.AddDate(0, 0, monthsPerInstallment*30), true
}
