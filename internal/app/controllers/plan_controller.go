package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
)

// PlanController handles orientation plan operations
type PlanController struct {
	planService services.PlanService
}

// NewPlanController creates a new PlanController
func NewPlanController(planService services.PlanService) *PlanController {
	return &PlanController{planService: planService}
}

// CreatePlan creates a plan with its initial items
// @Summary Create an orientation plan
// @Description A tutor creates a plan for a student of their center. Items are created in the given order within the same transaction.
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePlanRequest true "Plan data"
// @Success 201 {object} dto.APIResponse{data=dto.PlanResponse} "Plan created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor of the student's center"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans [post]
func (c *PlanController) CreatePlan(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid plan data", err)))
		return
	}

	plan, err := c.planService.CreatePlan(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: plan, Timestamp: time.Now()})
}

// GetPlan retrieves a plan with items and tasks
// @Summary Get a plan
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} dto.APIResponse{data=dto.PlanResponse} "Plan detail"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Student not visible to this account"
// @Failure 404 {object} dto.ErrorResponse "Plan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans/{id} [get]
func (c *PlanController) GetPlan(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	planID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	plan, err := c.planService.GetPlan(ctx, id, planID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: plan, Timestamp: time.Now()})
}

// ListPlans lists plans visible to the caller
// @Summary List plans
// @Description Lists plans scoped by role. Tutors see their center's students, families their linked students, students their own.
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student ID"
// @Param status query string false "Filter by plan status"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PlanListResponse} "Plans"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Student not visible to this account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans [get]
func (c *PlanController) ListPlans(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var filter dto.PlanFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid filter parameters", err)))
		return
	}

	plans, err := c.planService.ListPlans(ctx, id, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: plans, Timestamp: time.Now()})
}

// AddItem appends an item to a plan
// @Summary Add a plan item
// @Description Appends an item at the end of the plan and recomputes progress
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param request body dto.AddPlanItemRequest true "Item data"
// @Success 201 {object} dto.APIResponse{data=dto.PlanItemResponse} "Item added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to modify this plan"
// @Failure 404 {object} dto.ErrorResponse "Plan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans/{id}/items [post]
func (c *PlanController) AddItem(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	planID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddPlanItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid item data", err)))
		return
	}

	item, err := c.planService.AddItem(ctx, id, planID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: item, Timestamp: time.Now()})
}

// AddTask appends a task to a plan item
// @Summary Add a plan task
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemId path int true "Plan item ID"
// @Param request body dto.AddPlanTaskRequest true "Task data"
// @Success 201 {object} dto.APIResponse{data=dto.PlanTaskResponse} "Task added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to modify this plan"
// @Failure 404 {object} dto.ErrorResponse "Plan item not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans/items/{itemId}/tasks [post]
func (c *PlanController) AddTask(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(ctx, "itemId")
	if !ok {
		return
	}

	var req dto.AddPlanTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid task data", err)))
		return
	}

	task, err := c.planService.AddTask(ctx, id, itemID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: task, Timestamp: time.Now()})
}

// SetItemStatus updates a plan item status
// @Summary Set a plan item status
// @Description Updates the item status and recomputes the plan progress in the same transaction. Returns the plan with its fresh progress.
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemId path int true "Plan item ID"
// @Param request body dto.SetItemStatusRequest true "Status data"
// @Success 200 {object} dto.APIResponse{data=dto.PlanResponse} "Plan with recomputed progress"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to modify this plan"
// @Failure 404 {object} dto.ErrorResponse "Plan item not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans/items/{itemId}/status [patch]
func (c *PlanController) SetItemStatus(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	itemID, ok := parseIDParam(ctx, "itemId")
	if !ok {
		return
	}

	var req dto.SetItemStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid status data", err)))
		return
	}

	plan, err := c.planService.SetItemStatus(ctx, id, itemID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: plan, Timestamp: time.Now()})
}

// SetTaskStatus marks a task completed or not completed
// @Summary Set a plan task status
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Plan task ID"
// @Param request body dto.SetTaskStatusRequest true "Completion data"
// @Success 200 {object} dto.APIResponse{data=dto.PlanTaskResponse} "Task updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to modify this plan"
// @Failure 404 {object} dto.ErrorResponse "Plan task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /plans/tasks/{taskId}/status [patch]
func (c *PlanController) SetTaskStatus(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(ctx, "taskId")
	if !ok {
		return
	}

	var req dto.SetTaskStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid completion data", err)))
		return
	}

	task, err := c.planService.SetTaskStatus(ctx, id, taskID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: task, Timestamp: time.Now()})
}
