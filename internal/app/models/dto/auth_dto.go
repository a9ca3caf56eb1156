package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// RegisterRequest represents registration data. The invitation code binds
// the new profile to a center and fixes its role.
type RegisterRequest struct {
	InvitationCode string  `json:"invitationCode" binding:"required,len=8"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	Phone          *string `json:"phone,omitempty"`
	// Student fields, used when the invitation role is student
	CourseYear    *string  `json:"courseYear,omitempty"`
	GroupName     *string  `json:"groupName,omitempty"`
	AcademicYear  *string  `json:"academicYear,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	PreferredPath *string  `json:"preferredPath,omitempty"`
}

// RegisterCompanyRequest represents company self-registration data.
// Companies do not use invitation codes; they start in pending status.
type RegisterCompanyRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	FirstName   string  `json:"firstName" binding:"required"`
	LastName    string  `json:"lastName" binding:"required"`
	CompanyName string  `json:"companyName" binding:"required"`
	TaxID       *string `json:"taxId,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a refresh token exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// --- Response DTOs ---

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// ProfileResponse represents profile information
type ProfileResponse struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Role      models.RoleType `json:"role"`
	CenterID  *int64          `json:"centerId,omitempty"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Phone     *string         `json:"phone,omitempty"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AuthResponse combines the token pair with the authenticated profile
type AuthResponse struct {
	TokenResponse
	Profile ProfileResponse `json:"profile"`
}

// FromProfile converts a models.Profile to a ProfileResponse
func FromProfile(p *models.Profile) ProfileResponse {
	if p == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role,
		CenterID:  p.CenterID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}
