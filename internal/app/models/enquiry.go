package models

import "time"

// Enquiry is a prospective student's record before an admission decision.
// Status transitions are terminal from NEW: NEW -> ADMITTED or NEW -> CANCELLED.
type Enquiry struct {
	ID             int64         `json:"id" db:"id"`
	Name           string        `json:"name" db:"name"`
	Contact        string        `json:"contact" db:"contact"`
	CourseInterest string        `json:"courseInterest" db:"course_interest"`
	Status         EnquiryStatus `json:"status" db:"status"`
	JoiningDate    *time.Time    `json:"joiningDate,omitempty" db:"joining_date"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
}

// CanAdmit reports whether the enquiry may be converted into a student.
// Re-admitting an already admitted enquiry is rejected, not idempotent.
func (e *Enquiry) CanAdmit() bool {
	return e.Status != EnquiryAdmitted
}

// CanCancel reports whether the enquiry may be cancelled. Cancelling an
// already cancelled enquiry is permitted and idempotent.
func (e *Enquiry) CanCancel() bool {
	return e.Status != EnquiryAdmitted
}
