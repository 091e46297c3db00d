package models

import "time"

// Appointment ties a visitor to a staff member at a date and time.
// There is no overlap detection; identical slots are accepted silently.
type Appointment struct {
	ID             int64         `json:"id" db:"id"`
	VisitorName    string        `json:"visitorName" db:"visitor_name"`
	VisitorContact string        `json:"visitorContact" db:"visitor_contact"`
	Purpose        string        `json:"purpose" db:"purpose"`
	Date           time.Time     `json:"date" db:"date"`
	Time           string        `json:"time" db:"time"`
	StaffID        int64         `json:"staffId" db:"staff_id"`
	Staff          *StaffProfile `json:"staff,omitempty"` // Relation, no db tag
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
}
