package models

// Role defines the user role type
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleStaff        Role = "STAFF"
	RoleReceptionist Role = "RECEPTIONIST"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleReceptionist:
		return true
	}
	return false
}

// EnquiryStatus defines the lifecycle state of an enquiry
type EnquiryStatus string

const (
	EnquiryNew       EnquiryStatus = "NEW"
	EnquiryAdmitted  EnquiryStatus = "ADMITTED"
	EnquiryCancelled EnquiryStatus = "CANCELLED"
)

// FeeStatus defines the derived state of a fee ledger
type FeeStatus string

const (
	FeePending       FeeStatus = "PENDING"
	FeePartiallyPaid FeeStatus = "PARTIALLY_PAID"
	FeePaid          FeeStatus = "PAID"
)

// PaymentPlan defines how a fee's total amount is scheduled
type PaymentPlan string

const (
	PlanLumpSum      PaymentPlan = "LUMP_SUM"
	PlanInstallments PaymentPlan = "INSTALLMENTS"
)

// IsValid reports whether the payment plan is one of the known plans.
func (p PaymentPlan) IsValid() bool {
	switch p {
	case PlanLumpSum, PlanInstallments:
		return true
	}
	return false
}
