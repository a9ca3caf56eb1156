package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// UpdateCompanyRequest represents company profile update data
type UpdateCompanyRequest struct {
	Name        string  `json:"name" binding:"required"`
	TaxID       *string `json:"taxId,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty" binding:"omitempty,url"`
}

// DecideCompanyRequest represents an admin decision on a company.
// Rejection requires a reason.
type DecideCompanyRequest struct {
	Approve         bool    `json:"approve"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// CompanyFilterRequest represents company list filter parameters
type CompanyFilterRequest struct {
	Status   *models.CompanyStatus `form:"status,omitempty"`
	Search   *string               `form:"search,omitempty"`
	Page     int                   `form:"page,default=1" binding:"min=1"`
	PageSize int                   `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// CompanyResponse represents a collaborating company
type CompanyResponse struct {
	ID              int64                `json:"id"`
	ProfileID       int64                `json:"profileId"`
	Name            string               `json:"name"`
	TaxID           *string              `json:"taxId,omitempty"`
	Sector          *string              `json:"sector,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Website         *string              `json:"website,omitempty"`
	Status          models.CompanyStatus `json:"status"`
	DecidedBy       *int64               `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time           `json:"decidedAt,omitempty"`
	RejectionReason *string              `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// CompanyListResponse represents a list of companies
type CompanyListResponse struct {
	Companies []CompanyResponse `json:"companies"`
	PaginationInfo
}

// FromCompany converts a models.Company to a CompanyResponse
func FromCompany(c *models.Company) CompanyResponse {
	if c == nil {
		return CompanyResponse{}
	}
	return CompanyResponse{
		ID:              c.ID,
		ProfileID:       c.ProfileID,
		Name:            c.Name,
		TaxID:           c.TaxID,
		Sector:          c.Sector,
		Description:     c.Description,
		Website:         c.Website,
		Status:          c.Status,
		DecidedBy:       c.DecidedBy,
		DecidedAt:       c.DecidedAt,
		RejectionReason: c.RejectionReason,
		CreatedAt:       c.CreatedAt,
	}
}
