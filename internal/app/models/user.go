package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                  // Unique identifier for the user
	Username    string     `json:"username" db:"username" example:"front_desk"`             // Login name, unique
	Password    string     `json:"-" db:"password"`                                         // Hashed password (excluded from JSON)
	Role        Role       `json:"role" db:"role" example:"RECEPTIONIST"`                   // User's role
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                  // Whether the account may log in
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"` // Timestamp of the last login (nullable)
}

// StaffProfile defines the 1:1 profile row for a STAFF user
type StaffProfile struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"userId" db:"user_id"`
	FullName string `json:"fullName" db:"full_name"`
	Contact  string `json:"contact" db:"contact"`
	User     *User  `json:"user,omitempty"` // Relation, no db tag
}

// ReceptionistProfile defines the 1:1 profile row for a RECEPTIONIST user
type ReceptionistProfile struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"userId" db:"user_id"`
	FullName string `json:"fullName" db:"full_name"`
	Contact  string `json:"contact" db:"contact"`
	User     *User  `json:"user,omitempty"` // Relation, no db tag
}
