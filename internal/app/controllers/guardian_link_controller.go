package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
)

// GuardianLinkController handles guardian-student link operations
type GuardianLinkController struct {
	linkService services.GuardianLinkService
}

// NewGuardianLinkController creates a new GuardianLinkController
func NewGuardianLinkController(linkService services.GuardianLinkService) *GuardianLinkController {
	return &GuardianLinkController{linkService: linkService}
}

// RequestLink requests a link to a student
// @Summary Request a guardian link
// @Description A family account requests access to a student identified by email. The link stays pending until a tutor of the student's center decides it.
// @Tags guardian-links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RequestLinkRequest true "Link request data"
// @Success 201 {object} dto.APIResponse{data=dto.GuardianLinkResponse} "Link requested"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a family account"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Link already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guardian-links [post]
func (c *GuardianLinkController) RequestLink(ctx *gin.Context) {
	guardianID, ok := actorID(ctx)
	if !ok {
		return
	}

	var req dto.RequestLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid link request data", err)))
		return
	}

	link, err := c.linkService.RequestLink(ctx, guardianID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: link, Timestamp: time.Now()})
}

// DecideLink approves or rejects a pending link
// @Summary Decide a guardian link
// @Description A tutor of the student's center approves or rejects a pending link request
// @Tags guardian-links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Link ID"
// @Param request body dto.DecideLinkRequest true "Decision data"
// @Success 200 {object} dto.APIResponse{data=dto.GuardianLinkResponse} "Link decided"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor of this center"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Failure 409 {object} dto.ErrorResponse "Link already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guardian-links/{id}/decision [patch]
func (c *GuardianLinkController) DecideLink(ctx *gin.Context) {
	deciderID, ok := actorID(ctx)
	if !ok {
		return
	}

	linkID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecideLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid decision data", err)))
		return
	}

	link, err := c.linkService.DecideLink(ctx, deciderID, linkID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: link, Timestamp: time.Now()})
}

// ListPending lists pending link requests for the tutor's center
// @Summary List pending guardian links
// @Tags guardian-links
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GuardianLinkListResponse} "Pending links"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guardian-links/pending [get]
func (c *GuardianLinkController) ListPending(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	links, err := c.linkService.ListPendingForCenter(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: links, Timestamp: time.Now()})
}

// ListMine lists the guardian's own link requests
// @Summary List own guardian links
// @Tags guardian-links
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GuardianLinkListResponse} "Links"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guardian-links [get]
func (c *GuardianLinkController) ListMine(ctx *gin.Context) {
	guardianID, ok := actorID(ctx)
	if !ok {
		return
	}

	links, err := c.linkService.ListForGuardian(ctx, guardianID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: links, Timestamp: time.Now()})
}

// ListChildren lists the students linked to the guardian
// @Summary List linked students
// @Description Returns the students whose link with the guardian has been approved
// @Tags guardian-links
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ChildrenListResponse} "Linked students"
// @Failure 403 {object} dto.ErrorResponse "Not a family account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /guardian-links/children [get]
func (c *GuardianLinkController) ListChildren(ctx *gin.Context) {
	guardianID, ok := actorID(ctx)
	if !ok {
		return
	}

	children, err := c.linkService.ListChildren(ctx, guardianID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: children, Timestamp: time.Now()})
}
