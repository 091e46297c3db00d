package dto

import "time"

// ScheduleAppointmentRequest books a visitor slot with a staff member.
// Overlapping slots are accepted; the book keeps no conflict state.
type ScheduleAppointmentRequest struct {
	VisitorName    string    `json:"visitorName" binding:"required"`
	VisitorContact string    `json:"visitorContact" binding:"required"`
	Purpose        string    `json:"purpose"`
	Date           time.Time `json:"date" binding:"required"`
	Time           string    `json:"time" binding:"required"`
	StaffID        int64     `json:"staffId" binding:"required"`
}

// UpdateSettingsRequest replaces the institute-wide settings record.
type UpdateSettingsRequest struct {
	InstituteName   string  `json:"instituteName" binding:"required"`
	DiscountPercent float64 `json:"discountPercent"`
}
