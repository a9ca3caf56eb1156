package models

import "time"

// PlanStatus is the lifecycle state of a guidance plan
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// PlanItemStatus is the state of a single plan item
type PlanItemStatus string

const (
	ItemPending    PlanItemStatus = "pending"
	ItemInProgress PlanItemStatus = "in_progress"
	ItemCompleted  PlanItemStatus = "completed"
	ItemSkipped    PlanItemStatus = "skipped"
)

// PlanTaskType classifies a task inside a plan item
type PlanTaskType string

const (
	TaskGeneral       PlanTaskType = "general"
	TaskReading       PlanTaskType = "reading"
	TaskQuestionnaire PlanTaskType = "questionnaire"
	TaskEvent         PlanTaskType = "event"
	TaskDeliverable   PlanTaskType = "deliverable"
	TaskMeeting       PlanTaskType = "meeting"
)

// PlanTaskStatus is the state of a leaf task
type PlanTaskStatus string

const (
	TaskPending    PlanTaskStatus = "pending"
	TaskInProgress PlanTaskStatus = "in_progress"
	TaskCompleted  PlanTaskStatus = "completed"
)

// Plan defines a guidance plan based on the 'plans' table. Progress is a
// denormalized percentage over the plan's items, recalculated inside the
// same transaction as any item status change.
type Plan struct {
	ID          int64      `json:"id" db:"id"`
	StudentID   int64      `json:"studentId" db:"student_id"`
	CreatedBy   int64      `json:"createdBy" db:"created_by"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Status      PlanStatus `json:"status" db:"status"`
	Progress    int        `json:"progress" db:"progress"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations
	Items []PlanItem `json:"items,omitempty" db:"-"`
}

// PlanProgress derives the plan progress percentage from its items:
// round(100 * completed / total), 0 for a plan with no items. Task
// completion never feeds this number.
func PlanProgress(items []PlanItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for i := range items {
		if items[i].Status == ItemCompleted {
			completed++
		}
	}
	return int(float64(completed)/float64(len(items))*100 + 0.5)
}

// PlanItem defines a step of a plan based on the 'plan_items' table
type PlanItem struct {
	ID          int64          `json:"id" db:"id"`
	PlanID      int64          `json:"planId" db:"plan_id"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description,omitempty" db:"description"`
	Status      PlanItemStatus `json:"status" db:"status"`
	SortOrder   int            `json:"sortOrder" db:"sort_order"`
	DueDate     *time.Time     `json:"dueDate,omitempty" db:"due_date"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations
	Tasks []PlanTask `json:"tasks,omitempty" db:"-"`
}

// PlanTask defines a leaf task under a plan item based on the
// 'plan_tasks' table. Task status does not feed the plan progress
// percentage; only item statuses do. A task may point at the resource
// or event it is about.
type PlanTask struct {
	ID               int64          `json:"id" db:"id"`
	PlanItemID       int64          `json:"planItemId" db:"plan_item_id"`
	Title            string         `json:"title" db:"title"`
	TaskType         PlanTaskType   `json:"taskType" db:"task_type"`
	Status           PlanTaskStatus `json:"status" db:"status"`
	LinkedResourceID *int64         `json:"linkedResourceId,omitempty" db:"linked_resource_id"`
	LinkedEventID    *int64         `json:"linkedEventId,omitempty" db:"linked_event_id"`
	CompletedBy      *int64         `json:"completedBy,omitempty" db:"completed_by"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty" db:"completed_at"`
	SortOrder        int            `json:"sortOrder" db:"sort_order"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`
}
