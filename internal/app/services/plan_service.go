package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/auth"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/helpers"
)

// PlanService defines the interface for guidance plan operations
type PlanService interface {
	CreatePlan(ctx context.Context, actorID int64, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, actorID, planID int64) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, actorID int64, filter *dto.PlanFilterRequest) (*dto.PlanListResponse, error)
	AddItem(ctx context.Context, actorID, planID int64, req *dto.AddPlanItemRequest) (*dto.PlanItemResponse, error)
	AddTask(ctx context.Context, actorID, itemID int64, req *dto.AddPlanTaskRequest) (*dto.PlanTaskResponse, error)
	SetItemStatus(ctx context.Context, actorID, itemID int64, req *dto.SetItemStatusRequest) (*dto.PlanResponse, error)
	SetTaskStatus(ctx context.Context, actorID, taskID int64, req *dto.SetTaskStatusRequest) (*dto.PlanTaskResponse, error)
}

// PlanStore is the data access surface for plans, items and tasks
type PlanStore interface {
	CreateWithItems(ctx context.Context, plan *models.Plan, items []models.PlanItem) error
	GetByID(ctx context.Context, id int64) (*models.Plan, error)
	GetDetail(ctx context.Context, id int64) (*models.Plan, error)
	GetItem(ctx context.Context, itemID int64) (*models.PlanItem, error)
	GetTask(ctx context.Context, taskID int64) (*models.PlanTask, error)
	SetItemStatus(ctx context.Context, itemID int64, status models.PlanItemStatus) (*models.Plan, error)
	SetTaskStatus(ctx context.Context, taskID int64, status models.PlanTaskStatus, completedBy int64, at time.Time) (*models.PlanTask, error)
	AddItem(ctx context.Context, item *models.PlanItem) error
	AddTask(ctx context.Context, task *models.PlanTask) error
	List(ctx context.Context, studentIDs []int64, status *models.PlanStatus, offset uint64, limit int) ([]*models.Plan, int64, error)
}

// planServiceImpl implements PlanService
type planServiceImpl struct {
	planStore    PlanStore
	profileStore ProfileStore
	studentStore StudentStore
	access       *auth.AccessService
	logger       zerolog.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planStore PlanStore,
	profileStore ProfileStore,
	studentStore StudentStore,
	access *auth.AccessService,
	logger zerolog.Logger,
) PlanService {
	return &planServiceImpl{
		planStore:    planStore,
		profileStore: profileStore,
		studentStore: studentStore,
		access:       access,
		logger:       logger,
	}
}

// canModifyPlan checks write access: the center tutor, an admin, or the
// student progressing their own plan. Guardians are read-only.
func (s *planServiceImpl) canModifyPlan(ctx context.Context, actor *models.Profile, plan *models.Plan) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTutor:
		student, err := s.studentStore.GetByID(ctx, plan.StudentID)
		if err != nil {
			return err
		}
		return s.access.RequireTutorAtCenter(actor, student.CenterID)
	case models.RoleStudent:
		student, err := s.studentStore.GetByProfileID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if student.ID != plan.StudentID {
			return apperrors.ErrPermissionDenied
		}
		return nil
	default:
		return apperrors.ErrPermissionDenied
	}
}

// CreatePlan creates a plan and its ordered items atomically. Partial
// creation is impossible; either the plan lands with every item or nothing
// is written.
func (s *planServiceImpl) CreatePlan(ctx context.Context, actorID int64, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentStore.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireTutorAtCenter(actor, student.CenterID); err != nil {
		return nil, err
	}

	plan := &models.Plan{
		StudentID:   req.StudentID,
		CreatedBy:   actorID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.PlanActive,
		Progress:    0,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	items := make([]models.PlanItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		items = append(items, models.PlanItem{
			Title:       itemReq.Title,
			Description: itemReq.Description,
			Status:      models.ItemPending,
			DueDate:     itemReq.DueDate,
		})
	}

	if err := s.planStore.CreateWithItems(ctx, plan, items); err != nil {
		s.logger.Error().Err(err).Int64("studentID", req.StudentID).Msg("Failed to create plan")
		return nil, err
	}

	s.logger.Info().
		Int64("planID", plan.ID).
		Int64("studentID", plan.StudentID).
		Int("items", len(items)).
		Msg("Plan created")

	resp := dto.FromPlan(plan)
	return &resp, nil
}

// GetPlan retrieves a plan with items and tasks, access-checked
func (s *planServiceImpl) GetPlan(ctx context.Context, actorID, planID int64) (*dto.PlanResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planStore.GetDetail(ctx, planID)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireViewStudent(ctx, actor, plan.StudentID); err != nil {
		return nil, err
	}

	resp := dto.FromPlan(plan)
	return &resp, nil
}

// ListPlans retrieves plans restricted to the actor's visible students
func (s *planServiceImpl) ListPlans(ctx context.Context, actorID int64, filter *dto.PlanFilterRequest) (*dto.PlanListResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	visible, err := s.access.VisibleStudentIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	studentIDs := visible
	if filter.StudentID != nil {
		if err := s.access.RequireViewStudent(ctx, actor, *filter.StudentID); err != nil {
			return nil, err
		}
		studentIDs = []int64{*filter.StudentID}
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	plans, total, err := s.planStore.List(ctx, studentIDs, filter.Status, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.PlanListResponse{
		Plans:          make([]dto.PlanResponse, 0, len(plans)),
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
	for _, plan := range plans {
		resp.Plans = append(resp.Plans, dto.FromPlan(plan))
	}
	return resp, nil
}

// AddItem appends an item to an existing plan
func (s *planServiceImpl) AddItem(ctx context.Context, actorID, planID int64, req *dto.AddPlanItemRequest) (*dto.PlanItemResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planStore.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentStore.GetByID(ctx, plan.StudentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireTutorAtCenter(actor, student.CenterID); err != nil {
		return nil, err
	}

	item := &models.PlanItem{
		PlanID:      planID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ItemPending,
		DueDate:     req.DueDate,
	}

	if err := s.planStore.AddItem(ctx, item); err != nil {
		return nil, err
	}

	resp := dto.FromPlanItem(item)
	return &resp, nil
}

// AddTask appends a task under a plan item
func (s *planServiceImpl) AddTask(ctx context.Context, actorID, itemID int64, req *dto.AddPlanTaskRequest) (*dto.PlanTaskResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	item, err := s.planStore.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planStore.GetByID(ctx, item.PlanID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentStore.GetByID(ctx, plan.StudentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireTutorAtCenter(actor, student.CenterID); err != nil {
		return nil, err
	}

	task := &models.PlanTask{
		PlanItemID:       itemID,
		Title:            req.Title,
		TaskType:         req.TaskType,
		Status:           models.TaskPending,
		LinkedResourceID: req.LinkedResourceID,
		LinkedEventID:    req.LinkedEventID,
	}

	if err := s.planStore.AddTask(ctx, task); err != nil {
		return nil, err
	}

	resp := dto.FromPlanTask(task)
	return &resp, nil
}

// SetItemStatus updates an item status; the plan's progress is recalculated
// from all item statuses in the same transaction and the updated plan is
// returned.
func (s *planServiceImpl) SetItemStatus(ctx context.Context, actorID, itemID int64, req *dto.SetItemStatusRequest) (*dto.PlanResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	item, err := s.planStore.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planStore.GetByID(ctx, item.PlanID)
	if err != nil {
		return nil, err
	}
	if err := s.canModifyPlan(ctx, actor, plan); err != nil {
		return nil, err
	}

	updated, err := s.planStore.SetItemStatus(ctx, itemID, req.Status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("itemID", itemID).
		Str("status", string(req.Status)).
		Int("progress", updated.Progress).
		Msg("Plan item status updated")

	resp := dto.FromPlan(updated)
	return &resp, nil
}

// SetTaskStatus moves a leaf task through pending, in_progress and
// completed. Task status is tracked per task and never feeds the plan
// progress percentage.
func (s *planServiceImpl) SetTaskStatus(ctx context.Context, actorID, taskID int64, req *dto.SetTaskStatusRequest) (*dto.PlanTaskResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.planStore.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	item, err := s.planStore.GetItem(ctx, task.PlanItemID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planStore.GetByID(ctx, item.PlanID)
	if err != nil {
		return nil, err
	}
	if err := s.canModifyPlan(ctx, actor, plan); err != nil {
		return nil, err
	}

	updated, err := s.planStore.SetTaskStatus(ctx, taskID, req.Status, actorID, time.Now())
	if err != nil {
		return nil, err
	}

	resp := dto.FromPlanTask(updated)
	return &resp, nil
}
