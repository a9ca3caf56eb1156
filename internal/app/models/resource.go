package models

import "time"

// ResourceType classifies an orientation resource
type ResourceType string

const (
	ResourceGuide   ResourceType = "guide"
	ResourceArticle ResourceType = "article"
	ResourceVideo   ResourceType = "video"
	ResourceFAQ     ResourceType = "faq"
	ResourceLink    ResourceType = "link"
)

// ResourceStatus is the lifecycle state of a resource. Staff drafts go
// straight from draft to published; company submissions pass through
// pending_approval first, like company events.
type ResourceStatus string

const (
	ResourceDraft     ResourceStatus = "draft"
	ResourcePending   ResourceStatus = "pending_approval"
	ResourcePublished ResourceStatus = "published"
	ResourceRejected  ResourceStatus = "rejected"
)

// ResourceAudience restricts who can see a resource
type ResourceAudience string

const (
	AudienceAll      ResourceAudience = "all"
	AudienceStudents ResourceAudience = "students"
	AudienceFamilies ResourceAudience = "families"
	AudienceTutors   ResourceAudience = "tutors"
)

// ResourceFilter narrows resource list queries
type ResourceFilter struct {
	Type      *ResourceType
	Status    *ResourceStatus
	CreatedBy *int64
	Search    *string
}

// Resource defines an orientation resource based on the 'resources'
// table. Only published resources are visible to their audience; other
// states are visible to staff and to the authoring company.
type Resource struct {
	ID              int64            `json:"id" db:"id"`
	CenterID        *int64           `json:"centerId,omitempty" db:"center_id"`
	CompanyID       *int64           `json:"companyId,omitempty" db:"company_id"`
	CreatedBy       int64            `json:"createdBy" db:"created_by"`
	Title           string           `json:"title" db:"title"`
	Description     *string          `json:"description,omitempty" db:"description"`
	Type            ResourceType     `json:"type" db:"type"`
	URL             *string          `json:"url,omitempty" db:"url"`
	Audience        ResourceAudience `json:"audience" db:"audience"`
	Status          ResourceStatus   `json:"status" db:"status"`
	ViewCount       int              `json:"viewCount" db:"view_count"`
	RejectionReason *string          `json:"rejectionReason,omitempty" db:"rejection_reason"`
	PublishedAt     *time.Time       `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}
