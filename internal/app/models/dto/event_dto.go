package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// CreateEventRequest represents event creation data
type CreateEventRequest struct {
	Title        string           `json:"title" binding:"required"`
	Description  *string          `json:"description,omitempty"`
	Type         models.EventType `json:"type" binding:"required,oneof=talk workshop visit open_day fair tutoring"`
	Location     *string          `json:"location,omitempty"`
	Capacity     *int             `json:"capacity,omitempty" binding:"omitempty,gt=0"`
	TargetGrades []string         `json:"targetGrades,omitempty"`
	StartsAt     time.Time        `json:"startsAt" binding:"required"`
	EndsAt       *time.Time       `json:"endsAt,omitempty"`
	CenterID     *int64           `json:"centerId,omitempty"`
}

// DecideEventRequest represents an approval decision on a pending event
type DecideEventRequest struct {
	Approve         bool    `json:"approve"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// MarkAttendanceRequest represents a post-event attendance record
type MarkAttendanceRequest struct {
	StudentID int64 `json:"studentId" binding:"required,gt=0"`
	Attended  bool  `json:"attended"`
}

// EventFilterRequest represents event list filter parameters
type EventFilterRequest struct {
	Type      *models.EventType   `form:"type,omitempty"`
	Status    *models.EventStatus `form:"status,omitempty"`
	CompanyID *int64              `form:"companyId,omitempty"`
	Upcoming  bool                `form:"upcoming,default=false"`
	Page      int                 `form:"page,default=1" binding:"min=1"`
	PageSize  int                 `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// EventResponse represents an orientation event
type EventResponse struct {
	ID              int64              `json:"id"`
	CenterID        int64              `json:"centerId"`
	CompanyID       *int64             `json:"companyId,omitempty"`
	CreatedBy       int64              `json:"createdBy"`
	Title           string             `json:"title"`
	Description     *string            `json:"description,omitempty"`
	Type            models.EventType   `json:"type"`
	Status          models.EventStatus `json:"status"`
	Location        *string            `json:"location,omitempty"`
	Capacity        *int               `json:"capacity,omitempty"`
	TargetGrades    []string           `json:"targetGrades"`
	StartsAt        time.Time          `json:"startsAt"`
	EndsAt          *time.Time         `json:"endsAt,omitempty"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
	ConfirmedCount  int                `json:"confirmedCount,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// EventRegistrationResponse represents a student's registration
type EventRegistrationResponse struct {
	ID               int64                     `json:"id"`
	EventID          int64                     `json:"eventId"`
	StudentID        int64                     `json:"studentId"`
	Status           models.RegistrationStatus `json:"status"`
	WaitlistPosition *int                      `json:"waitlistPosition,omitempty"`
	RegisteredAt     time.Time                 `json:"registeredAt"`
}

// EventListResponse represents a list of events
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	PaginationInfo
}

// FromEvent converts a models.Event to an EventResponse
func FromEvent(e *models.Event) EventResponse {
	if e == nil {
		return EventResponse{}
	}
	return EventResponse{
		ID:              e.ID,
		CenterID:        e.CenterID,
		CompanyID:       e.CompanyID,
		CreatedBy:       e.CreatedBy,
		Title:           e.Title,
		Description:     e.Description,
		Type:            e.Type,
		Status:          e.Status,
		Location:        e.Location,
		Capacity:        e.Capacity,
		TargetGrades:    e.TargetGrades,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
	}
}

// FromEventRegistration converts a models.EventRegistration to its response
func FromEventRegistration(r *models.EventRegistration) EventRegistrationResponse {
	if r == nil {
		return EventRegistrationResponse{}
	}
	return EventRegistrationResponse{
		ID:               r.ID,
		EventID:          r.EventID,
		StudentID:        r.StudentID,
		Status:           r.Status,
		WaitlistPosition: r.WaitlistPosition,
		RegisteredAt:     r.RegisteredAt,
	}
}
