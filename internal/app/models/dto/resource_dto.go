package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// CreateResourceRequest represents resource creation data. CenterID is
// required for company submissions, which target one center's catalogue.
type CreateResourceRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description *string                 `json:"description,omitempty"`
	Type        models.ResourceType     `json:"type" binding:"required,oneof=guide article video faq link"`
	URL         *string                 `json:"url,omitempty" binding:"omitempty,url"`
	Audience    models.ResourceAudience `json:"audience" binding:"required,oneof=all students families tutors"`
	CenterID    *int64                  `json:"centerId,omitempty" binding:"omitempty,gt=0"`
}

// UpdateResourceRequest represents resource update data
type UpdateResourceRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description *string                 `json:"description,omitempty"`
	URL         *string                 `json:"url,omitempty" binding:"omitempty,url"`
	Audience    models.ResourceAudience `json:"audience" binding:"required,oneof=all students families tutors"`
}

// DecideResourceRequest represents an approval decision on a resource
// awaiting approval
type DecideResourceRequest struct {
	Approve         bool    `json:"approve"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// ResourceFilterRequest represents resource list filter parameters
type ResourceFilterRequest struct {
	Type     *models.ResourceType   `form:"type,omitempty"`
	Status   *models.ResourceStatus `form:"status,omitempty"`
	Search   *string                `form:"search,omitempty"`
	Page     int                    `form:"page,default=1" binding:"min=1"`
	PageSize int                    `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// ResourceResponse represents an orientation resource
type ResourceResponse struct {
	ID              int64                   `json:"id"`
	CenterID        *int64                  `json:"centerId,omitempty"`
	CompanyID       *int64                  `json:"companyId,omitempty"`
	CreatedBy       int64                   `json:"createdBy"`
	Title           string                  `json:"title"`
	Description     *string                 `json:"description,omitempty"`
	Type            models.ResourceType     `json:"type"`
	URL             *string                 `json:"url,omitempty"`
	Audience        models.ResourceAudience `json:"audience"`
	Status          models.ResourceStatus   `json:"status"`
	ViewCount       int                     `json:"viewCount"`
	RejectionReason *string                 `json:"rejectionReason,omitempty"`
	PublishedAt     *time.Time              `json:"publishedAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// ResourceListResponse represents a list of resources
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
	PaginationInfo
}

// FromResource converts a models.Resource to a ResourceResponse
func FromResource(r *models.Resource) ResourceResponse {
	if r == nil {
		return ResourceResponse{}
	}
	return ResourceResponse{
		ID:              r.ID,
		CenterID:        r.CenterID,
		CompanyID:       r.CompanyID,
		CreatedBy:       r.CreatedBy,
		Title:           r.Title,
		Description:     r.Description,
		Type:            r.Type,
		URL:             r.URL,
		Audience:        r.Audience,
		Status:          r.Status,
		ViewCount:       r.ViewCount,
		RejectionReason: r.RejectionReason,
		PublishedAt:     r.PublishedAt,
		CreatedAt:       r.CreatedAt,
	}
}
