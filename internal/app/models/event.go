package models

import "time"

// EventStatus is the lifecycle state of an event
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPending   EventStatus = "pending_approval"
	EventApproved  EventStatus = "approved"
	EventRejected  EventStatus = "rejected"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// EventType classifies an event
type EventType string

const (
	EventTalk     EventType = "talk"
	EventWorkshop EventType = "workshop"
	EventVisit    EventType = "visit"
	EventOpenDay  EventType = "open_day"
	EventFair     EventType = "fair"
	EventTutoring EventType = "tutoring"
)

// RegistrationStatus is the state of a student's event registration
type RegistrationStatus string

const (
	RegistrationConfirmed  RegistrationStatus = "confirmed"
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationNoShow     RegistrationStatus = "no_show"
)

// Event defines an orientation event based on the 'events' table.
// Capacity nil means unlimited. TargetGrades narrows the event to
// specific course years; empty means every grade.
type Event struct {
	ID              int64       `json:"id" db:"id"`
	CenterID        int64       `json:"centerId" db:"center_id"`
	CompanyID       *int64      `json:"companyId,omitempty" db:"company_id"`
	CreatedBy       int64       `json:"createdBy" db:"created_by"`
	Title           string      `json:"title" db:"title"`
	Description     *string     `json:"description,omitempty" db:"description"`
	Type            EventType   `json:"type" db:"type"`
	Status          EventStatus `json:"status" db:"status"`
	Location        *string     `json:"location,omitempty" db:"location"`
	Capacity        *int        `json:"capacity,omitempty" db:"capacity"`
	TargetGrades    []string    `json:"targetGrades" db:"target_grades"`
	StartsAt        time.Time   `json:"startsAt" db:"starts_at"`
	EndsAt          *time.Time  `json:"endsAt,omitempty" db:"ends_at"`
	RejectionReason *string     `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`

	// Relations
	Company *Company `json:"company,omitempty" db:"-"`
}

// EventFilter narrows event list queries
type EventFilter struct {
	Type      *EventType
	Status    *EventStatus
	CompanyID *int64
	CreatedBy *int64
	Upcoming  bool
}

// HasCapacity reports whether the event can accept another confirmed
// registration given the current confirmed count.
func (e *Event) HasCapacity(confirmed int) bool {
	return e.Capacity == nil || confirmed < *e.Capacity
}

// EventRegistration defines a student's registration based on the
// 'event_registrations' table. WaitlistPosition is set only while the
// registration is waitlisted; promotion is FIFO by position.
type EventRegistration struct {
	ID               int64              `json:"id" db:"id"`
	EventID          int64              `json:"eventId" db:"event_id"`
	StudentID        int64              `json:"studentId" db:"student_id"`
	Status           RegistrationStatus `json:"status" db:"status"`
	WaitlistPosition *int               `json:"waitlistPosition,omitempty" db:"waitlist_position"`
	RegisteredAt     time.Time          `json:"registeredAt" db:"registered_at"`
	UpdatedAt        time.Time          `json:"updatedAt" db:"updated_at"`
}
