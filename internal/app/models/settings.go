package models

import "time"

// Settings is the single institute-wide configuration row. It replaces a
// process-wide mutable map: reads and writes go through the persistence
// layer so every instance observes the same values.
type Settings struct {
	ID              int64     `json:"id" db:"id"`
	InstituteName   string    `json:"instituteName" db:"institute_name"`
	DiscountPercent float64   `json:"discountPercent" db:"discount_percent"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
