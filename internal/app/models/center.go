package models

import "time"

// CenterType classifies an educational center
type CenterType string

const (
	CenterSecondary  CenterType = "secondary"
	CenterVocational CenterType = "vocational"
	CenterMixed      CenterType = "mixed"
)

// Center defines the tenant institution based on the 'centers' table
type Center struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Code      *string    `json:"code,omitempty" db:"code"`
	Type      CenterType `json:"type" db:"type"`
	City      *string    `json:"city,omitempty" db:"city"`
	Province  *string    `json:"province,omitempty" db:"province"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}
