package models

import (
	"time"
)

// Profile defines the identity record based on the 'profiles' table.
// Role is immutable after registration.
type Profile struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"alumno@example.com"`
	Password    string     `json:"-" db:"password"`
	Role        RoleType   `json:"role" db:"role" example:"student"`
	CenterID    *int64     `json:"centerId,omitempty" db:"center_id"`
	FirstName   string     `json:"firstName" db:"first_name" example:"Lucía"`
	LastName    string     `json:"lastName" db:"last_name" example:"García"`
	Phone       *string    `json:"phone,omitempty" db:"phone"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
