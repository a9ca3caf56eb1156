package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// RequestLinkRequest represents a guardian's request to link to a student
type RequestLinkRequest struct {
	StudentEmail string                      `json:"studentEmail" binding:"required,email"`
	Relationship models.GuardianRelationship `json:"relationship" binding:"required,oneof=mother father guardian other"`
}

// DecideLinkRequest represents a tutor's decision on a pending link
type DecideLinkRequest struct {
	Decision        models.GuardianLinkStatus `json:"decision" binding:"required,oneof=approved rejected"`
	RejectionReason *string                   `json:"rejectionReason,omitempty"`
}

// --- Response DTOs ---

// GuardianLinkResponse represents a guardian link
type GuardianLinkResponse struct {
	ID              int64                       `json:"id"`
	GuardianID      int64                       `json:"guardianId"`
	StudentID       int64                       `json:"studentId"`
	Relationship    models.GuardianRelationship `json:"relationship"`
	Status          models.GuardianLinkStatus   `json:"status"`
	DecidedBy       *int64                      `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time                  `json:"decidedAt,omitempty"`
	RejectionReason *string                     `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	Guardian        *ProfileResponse            `json:"guardian,omitempty"`
	Student         *StudentResponse            `json:"student,omitempty"`
}

// StudentResponse represents a student's academic record
type StudentResponse struct {
	ID            int64            `json:"id"`
	ProfileID     int64            `json:"profileId"`
	CenterID      int64            `json:"centerId"`
	TutorID       *int64           `json:"tutorId,omitempty"`
	CourseYear    *string          `json:"courseYear,omitempty"`
	GroupName     *string          `json:"groupName,omitempty"`
	AcademicYear  *string          `json:"academicYear,omitempty"`
	Interests     []string         `json:"interests"`
	PreferredPath *string          `json:"preferredPath,omitempty"`
	Profile       *ProfileResponse `json:"profile,omitempty"`
}

// GuardianLinkListResponse represents a list of guardian links
type GuardianLinkListResponse struct {
	Links []GuardianLinkResponse `json:"links"`
	PaginationInfo
}

// ChildrenListResponse represents a guardian's approved students
type ChildrenListResponse struct {
	Children []StudentResponse `json:"children"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(s *models.Student) StudentResponse {
	if s == nil {
		return StudentResponse{}
	}
	resp := StudentResponse{
		ID:            s.ID,
		ProfileID:     s.ProfileID,
		CenterID:      s.CenterID,
		TutorID:       s.TutorID,
		CourseYear:    s.CourseYear,
		GroupName:     s.GroupName,
		AcademicYear:  s.AcademicYear,
		Interests:     s.Interests,
		PreferredPath: s.PreferredPath,
	}
	if s.Profile != nil {
		p := FromProfile(s.Profile)
		resp.Profile = &p
	}
	return resp
}

// FromGuardianLink converts a models.GuardianLink to a GuardianLinkResponse
func FromGuardianLink(l *models.GuardianLink) GuardianLinkResponse {
	if l == nil {
		return GuardianLinkResponse{}
	}
	resp := GuardianLinkResponse{
		ID:              l.ID,
		GuardianID:      l.GuardianID,
		StudentID:       l.StudentID,
		Relationship:    l.Relationship,
		Status:          l.Status,
		DecidedBy:       l.DecidedBy,
		DecidedAt:       l.DecidedAt,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt,
	}
	if l.Guardian != nil {
		g := FromProfile(l.Guardian)
		resp.Guardian = &g
	}
	if l.Student != nil {
		s := FromStudent(l.Student)
		resp.Student = &s
	}
	return resp
}
