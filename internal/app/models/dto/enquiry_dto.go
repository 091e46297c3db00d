package dto

import "time"

// CreateEnquiryRequest represents a new walk-in enquiry.
type CreateEnquiryRequest struct {
	Name           string     `json:"name" binding:"required"`
	Contact        string     `json:"contact" binding:"required"`
	CourseInterest string     `json:"courseInterest" binding:"required"`
	JoiningDate    *time.Time `json:"joiningDate,omitempty"`
}

// StudentFields carries the student-record portion of an admission.
type StudentFields struct {
	Name            string     `json:"name" binding:"required"`
	FatherName      string     `json:"fatherName"`
	Qualification   string     `json:"qualification"`
	ContactNo       string     `json:"contactNo" binding:"required"`
	FatherContactNo string     `json:"fatherContactNo"`
	DOB             *time.Time `json:"dob,omitempty"`
	FullAddress     string     `json:"fullAddress"`
	ExamType        string     `json:"examType"`
	TargetExam      string     `json:"targetExam"`
}

// FeeFields carries the fee-ledger portion of an admission.
type FeeFields struct {
	TotalAmount        float64 `json:"totalAmount" binding:"required"`
	PaymentPlan        string  `json:"paymentPlan" binding:"required"`
	NumInstallments    *int    `json:"numInstallments,omitempty"`
	FirstPaymentAmount float64 `json:"firstPaymentAmount"`
}

// AdmitStudentRequest converts an enquiry into a student with a fee ledger.
type AdmitStudentRequest struct {
	Student StudentFields `json:"student" binding:"required"`
	Fee     FeeFields     `json:"fee" binding:"required"`
}

// DirectAdmissionRequest admits a student without a prior enquiry; the
// synthesized enquiry is created already admitted.
type DirectAdmissionRequest struct {
	Student        StudentFields `json:"student" binding:"required"`
	Fee            FeeFields     `json:"fee" binding:"required"`
	CourseInterest string        `json:"courseInterest" binding:"required"`
}

// AdmissionResponse is returned by both admission paths.
type AdmissionResponse struct {
	EnquiryID int64       `json:"enquiryId"`
	Student   interface{} `json:"student"`
	Fee       interface{} `json:"fee"`
}
