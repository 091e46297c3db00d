package dto

import (
	"time"

	"github.com/emre/akademix/internal/app/models"
)

// CreateUserRequest represents an admin request to create a user. STAFF and
// RECEPTIONIST users get a 1:1 profile row created alongside the account.
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=20"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     models.Role `json:"role" binding:"required"`
	FullName string      `json:"fullName"`
	Contact  string      `json:"contact"`
}

// UpdateUserRequest represents an admin request to update a user. Role is
// immutable after creation; a differing role is rejected.
type UpdateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=20"`
	Password string      `json:"password,omitempty"`
	Role     models.Role `json:"role" binding:"required"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// NewUserResponse maps a user model to its response form.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}
