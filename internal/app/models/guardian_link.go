package models

import "time"

// GuardianLinkStatus is the lifecycle state of a guardian link
type GuardianLinkStatus string

const (
	LinkPending  GuardianLinkStatus = "pending"
	LinkApproved GuardianLinkStatus = "approved"
	LinkRejected GuardianLinkStatus = "rejected"
)

// GuardianRelationship describes how the guardian relates to the student
type GuardianRelationship string

const (
	RelationshipMother   GuardianRelationship = "mother"
	RelationshipFather   GuardianRelationship = "father"
	RelationshipGuardian GuardianRelationship = "guardian"
	RelationshipOther    GuardianRelationship = "other"
)

// GuardianLink defines a guardian-student consent link based on the
// 'guardian_links' table. At most one non-rejected link may exist per
// (guardian, student) pair; the partial unique index
// guardian_links_active_link_key enforces this.
type GuardianLink struct {
	ID              int64                `json:"id" db:"id"`
	GuardianID      int64                `json:"guardianId" db:"guardian_id"`
	StudentID       int64                `json:"studentId" db:"student_id"`
	Relationship    GuardianRelationship `json:"relationship" db:"relationship"`
	Status          GuardianLinkStatus   `json:"status" db:"status"`
	DecidedBy       *int64               `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt       *time.Time           `json:"decidedAt,omitempty" db:"decided_at"`
	RejectionReason *string              `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time            `json:"updatedAt" db:"updated_at"`

	// Relations
	Guardian *Profile `json:"guardian,omitempty" db:"-"`
	Student  *Student `json:"student,omitempty" db:"-"`
}
