package dto

import (
	"time"

	"github.com/dmoran/orienta/internal/app/models"
)

// --- Request DTOs ---

// CreatePlanItemRequest represents one item of a plan at creation time
type CreatePlanItemRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// CreatePlanRequest represents plan creation data. Items are created in the
// given order inside the same transaction as the plan.
type CreatePlanRequest struct {
	StudentID   int64                   `json:"studentId" binding:"required,gt=0"`
	Title       string                  `json:"title" binding:"required"`
	Description *string                 `json:"description,omitempty"`
	StartDate   *time.Time              `json:"startDate,omitempty"`
	EndDate     *time.Time              `json:"endDate,omitempty"`
	Items       []CreatePlanItemRequest `json:"items" binding:"dive"`
}

// AddPlanItemRequest represents adding an item to an existing plan
type AddPlanItemRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// AddPlanTaskRequest represents adding a task under a plan item. Event
// and reading tasks may point at the event or resource they are about.
type AddPlanTaskRequest struct {
	Title            string              `json:"title" binding:"required"`
	TaskType         models.PlanTaskType `json:"taskType" binding:"required,oneof=general reading questionnaire event deliverable meeting"`
	LinkedResourceID *int64              `json:"linkedResourceId,omitempty" binding:"omitempty,gt=0"`
	LinkedEventID    *int64              `json:"linkedEventId,omitempty" binding:"omitempty,gt=0"`
}

// SetItemStatusRequest represents an item status change
type SetItemStatusRequest struct {
	Status models.PlanItemStatus `json:"status" binding:"required,oneof=pending in_progress completed skipped"`
}

// SetTaskStatusRequest represents a task status change
type SetTaskStatusRequest struct {
	Status models.PlanTaskStatus `json:"status" binding:"required,oneof=pending in_progress completed"`
}

// PlanFilterRequest represents plan list filter parameters
type PlanFilterRequest struct {
	StudentID *int64             `form:"studentId,omitempty"`
	Status    *models.PlanStatus `form:"status,omitempty"`
	Page      int                `form:"page,default=1" binding:"min=1"`
	PageSize  int                `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// PlanTaskResponse represents a task under a plan item
type PlanTaskResponse struct {
	ID               int64                 `json:"id"`
	PlanItemID       int64                 `json:"planItemId"`
	Title            string                `json:"title"`
	TaskType         models.PlanTaskType   `json:"taskType"`
	Status           models.PlanTaskStatus `json:"status"`
	LinkedResourceID *int64                `json:"linkedResourceId,omitempty"`
	LinkedEventID    *int64                `json:"linkedEventId,omitempty"`
	CompletedBy      *int64                `json:"completedBy,omitempty"`
	CompletedAt      *time.Time            `json:"completedAt,omitempty"`
	SortOrder        int                   `json:"sortOrder"`
}

// PlanItemResponse represents a plan item with its tasks
type PlanItemResponse struct {
	ID          int64                 `json:"id"`
	PlanID      int64                 `json:"planId"`
	Title       string                `json:"title"`
	Description *string               `json:"description,omitempty"`
	Status      models.PlanItemStatus `json:"status"`
	SortOrder   int                   `json:"sortOrder"`
	DueDate     *time.Time            `json:"dueDate,omitempty"`
	Tasks       []PlanTaskResponse    `json:"tasks,omitempty"`
}

// PlanResponse represents a guidance plan
type PlanResponse struct {
	ID          int64              `json:"id"`
	StudentID   int64              `json:"studentId"`
	CreatedBy   int64              `json:"createdBy"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Status      models.PlanStatus  `json:"status"`
	Progress    int                `json:"progress"`
	StartDate   *time.Time         `json:"startDate,omitempty"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	Items       []PlanItemResponse `json:"items,omitempty"`
}

// PlanListResponse represents a list of plans
type PlanListResponse struct {
	Plans []PlanResponse `json:"plans"`
	PaginationInfo
}

// FromPlanTask converts a models.PlanTask to a PlanTaskResponse
func FromPlanTask(t *models.PlanTask) PlanTaskResponse {
	if t == nil {
		return PlanTaskResponse{}
	}
	return PlanTaskResponse{
		ID:               t.ID,
		PlanItemID:       t.PlanItemID,
		Title:            t.Title,
		TaskType:         t.TaskType,
		Status:           t.Status,
		LinkedResourceID: t.LinkedResourceID,
		LinkedEventID:    t.LinkedEventID,
		CompletedBy:      t.CompletedBy,
		CompletedAt:      t.CompletedAt,
		SortOrder:        t.SortOrder,
	}
}

// FromPlanItem converts a models.PlanItem to a PlanItemResponse
func FromPlanItem(i *models.PlanItem) PlanItemResponse {
	if i == nil {
		return PlanItemResponse{}
	}
	resp := PlanItemResponse{
		ID:          i.ID,
		PlanID:      i.PlanID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		SortOrder:   i.SortOrder,
		DueDate:     i.DueDate,
	}
	for idx := range i.Tasks {
		resp.Tasks = append(resp.Tasks, FromPlanTask(&i.Tasks[idx]))
	}
	return resp
}

// FromPlan converts a models.Plan to a PlanResponse
func FromPlan(p *models.Plan) PlanResponse {
	if p == nil {
		return PlanResponse{}
	}
	resp := PlanResponse{
		ID:          p.ID,
		StudentID:   p.StudentID,
		CreatedBy:   p.CreatedBy,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Progress:    p.Progress,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedAt:   p.CreatedAt,
	}
	for idx := range p.Items {
		resp.Items = append(resp.Items, FromPlanItem(&p.Items[idx]))
	}
	return resp
}
