package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// CreateInvitationRequest represents invitation creation data.
// Only student, family and tutor invitations exist; companies self-register.
type CreateInvitationRequest struct {
	Role          models.RoleType `json:"role" binding:"required,oneof=student family tutor"`
	Email         *string         `json:"email,omitempty" binding:"omitempty,email"`
	ExpiresInDays int             `json:"expiresInDays" binding:"omitempty,min=1,max=365"`
}

// --- Response DTOs ---

// InvitationResponse represents an invitation code
type InvitationResponse struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code" example:"K7NPQ2XW"`
	CenterID  int64           `json:"centerId"`
	Role      models.RoleType `json:"role"`
	Email     *string         `json:"email,omitempty"`
	CreatedBy int64           `json:"createdBy"`
	UsedBy    *int64          `json:"usedBy,omitempty"`
	UsedAt    *time.Time      `json:"usedAt,omitempty"`
	ExpiresAt time.Time       `json:"expiresAt"`
	IsRevoked bool            `json:"isRevoked"`
	CreatedAt time.Time       `json:"createdAt"`
}

// InvitationListResponse represents a list of invitations
type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	PaginationInfo
}

// FromInvitation converts a models.Invitation to an InvitationResponse
func FromInvitation(i *models.Invitation) InvitationResponse {
	if i == nil {
		return InvitationResponse{}
	}
	return InvitationResponse{
		ID:        i.ID,
		Code:      i.Code,
		CenterID:  i.CenterID,
		Role:      i.Role,
		Email:     i.Email,
		CreatedBy: i.CreatedBy,
		UsedBy:    i.UsedBy,
		UsedAt:    i.UsedAt,
		ExpiresAt: i.ExpiresAt,
		IsRevoked: i.IsRevoked,
		CreatedAt: i.CreatedAt,
	}
}
