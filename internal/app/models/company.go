package models

import "time"

// CompanyStatus is the approval state of a company
type CompanyStatus string

const (
	CompanyPending   CompanyStatus = "pending"
	CompanyApproved  CompanyStatus = "approved"
	CompanyRejected  CompanyStatus = "rejected"
	CompanySuspended CompanyStatus = "suspended"
)

// Company defines a collaborating company based on the 'companies' table.
// Only approved companies can publish events.
type Company struct {
	ID              int64         `json:"id" db:"id"`
	ProfileID       int64         `json:"profileId" db:"profile_id"`
	Name            string        `json:"name" db:"name"`
	TaxID           *string       `json:"taxId,omitempty" db:"tax_id"`
	Sector          *string       `json:"sector,omitempty" db:"sector"`
	Description     *string       `json:"description,omitempty" db:"description"`
	Website         *string       `json:"website,omitempty" db:"website"`
	Status          CompanyStatus `json:"status" db:"status"`
	DecidedBy       *int64        `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt       *time.Time    `json:"decidedAt,omitempty" db:"decided_at"`
	RejectionReason *string       `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`

	// Relations
	Profile *Profile `json:"profile,omitempty" db:"-"`
}
