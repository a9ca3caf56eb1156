package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
)

// ResourceController handles orientation resource operations
type ResourceController struct {
	resourceService services.ResourceService
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService) *ResourceController {
	return &ResourceController{resourceService: resourceService}
}

// CreateResource creates a resource
// @Summary Create a resource
// @Description Tutors and admins create drafts. Approved companies submit resources for a center, which land in pending_approval.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateResourceRequest true "Resource data"
// @Success 201 {object} dto.APIResponse{data=dto.ResourceResponse} "Resource created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Role cannot create resources"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var req dto.CreateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid resource data", err)))
		return
	}

	resource, err := c.resourceService.CreateResource(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resource, Timestamp: time.Now()})
}

// UpdateResource updates a resource
// @Summary Update a resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body dto.UpdateResourceRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse} "Resource updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources/{id} [patch]
func (c *ResourceController) UpdateResource(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	resourceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid resource data", err)))
		return
	}

	resource, err := c.resourceService.UpdateResource(ctx, id, resourceID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resource, Timestamp: time.Now()})
}

// DecideResource approves or rejects a pending resource submission
// @Summary Decide a resource submission
// @Description Approves a pending_approval resource into published, or rejects it with a reason.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body dto.DecideResourceRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse} "Decision applied"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor at the resource's center"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 409 {object} dto.ErrorResponse "Resource is not awaiting approval"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources/{id}/decision [patch]
func (c *ResourceController) DecideResource(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	resourceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecideResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid decision data", err)))
		return
	}

	resource, err := c.resourceService.DecideResource(ctx, id, resourceID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resource, Timestamp: time.Now()})
}

// PublishResource publishes a draft resource
// @Summary Publish a resource
// @Description Makes a draft resource visible to its audience. Company submissions are published through the decision endpoint instead.
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse} "Resource published"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources/{id}/publish [post]
func (c *ResourceController) PublishResource(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	resourceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resource, err := c.resourceService.PublishResource(ctx, id, resourceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resource, Timestamp: time.Now()})
}

// GetResource retrieves a resource and counts the view
// @Summary Get a resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceResponse} "Resource detail"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Resource not found or not visible"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources/{id} [get]
func (c *ResourceController) GetResource(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	resourceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resource, err := c.resourceService.GetResource(ctx, id, resourceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resource, Timestamp: time.Now()})
}

// ListResources lists resources visible to the caller
// @Summary List resources
// @Description Lists published resources matching the caller's audience. Tutors and admins see every status at their center; companies see their own submissions.
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by resource type"
// @Param status query string false "Filter by status (staff only)"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceListResponse} "Resources"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /resources [get]
func (c *ResourceController) ListResources(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var filter dto.ResourceFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid filter parameters", err)))
		return
	}

	resources, err := c.resourceService.ListResources(ctx, id, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resources, Timestamp: time.Now()})
}
