package models

import "time"

// Student defines the student model based on the 'students' table.
// A student is created exactly once per admission event; EnquiryID is
// unique so at most one student exists per enquiry.
type Student struct {
	ID              int64      `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	FatherName      string     `json:"fatherName" db:"father_name"`
	Qualification   string     `json:"qualification" db:"qualification"`
	ContactNo       string     `json:"contactNo" db:"contact_no"`
	FatherContactNo string     `json:"fatherContactNo" db:"father_contact_no"`
	DOB             *time.Time `json:"dob,omitempty" db:"dob"`
	FullAddress     string     `json:"fullAddress" db:"full_address"`
	ExamType        string     `json:"examType" db:"exam_type"`
	TargetExam      string     `json:"targetExam" db:"target_exam"`
	DateOfAdmission time.Time  `json:"dateOfAdmission" db:"date_of_admission"`
	EnquiryID       *int64     `json:"enquiryId,omitempty" db:"enquiry_id"`
	Enquiry         *Enquiry   `json:"enquiry,omitempty"` // Relation, no db tag
}
