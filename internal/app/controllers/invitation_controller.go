package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
	"github.com/dmoran/orienta/internal/pkg/helpers"
	"github.com/dmoran/orienta/internal/pkg/validation"
)

// InvitationController handles invitation code operations
type InvitationController struct {
	invitationService services.InvitationService
}

// NewInvitationController creates a new InvitationController
func NewInvitationController(invitationService services.InvitationService) *InvitationController {
	return &InvitationController{invitationService: invitationService}
}

// CreateInvitation creates an invitation code
// @Summary Create an invitation
// @Description A tutor or admin creates a single-use invitation code for their center
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInvitationRequest true "Invitation data"
// @Success 201 {object} dto.APIResponse{data=dto.InvitationResponse} "Invitation created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor or admin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /invitations [post]
func (c *InvitationController) CreateInvitation(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid invitation data", err)))
		return
	}

	invitation, err := c.invitationService.CreateInvitation(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: invitation, Timestamp: time.Now()})
}

// ValidateCode checks an invitation code without consuming it
// @Summary Validate an invitation code
// @Description Public endpoint used by the registration form to check a code before submitting
// @Tags invitations
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} dto.APIResponse{data=dto.InvitationResponse} "Code is usable"
// @Failure 404 {object} dto.ErrorResponse "Code not found or revoked"
// @Failure 410 {object} dto.ErrorResponse "Code expired or used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /invitations/validate/{code} [get]
func (c *InvitationController) ValidateCode(ctx *gin.Context) {
	code := ctx.Param("code")
	if !validation.CompiledPatterns.InvitationCode.MatchString(code) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid code parameter").
			WithDetails("code must be 8 characters from the invitation alphabet")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	invitation, err := c.invitationService.ValidateCode(ctx, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: invitation, Timestamp: time.Now()})
}

// RevokeInvitation revokes an unused invitation
// @Summary Revoke an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Invitation revoked"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Invitation not found"
// @Failure 409 {object} dto.ErrorResponse "Invitation already used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /invitations/{id} [delete]
func (c *InvitationController) RevokeInvitation(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.invitationService.RevokeInvitation(ctx, id, invitationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Invitation revoked"},
		Timestamp: time.Now(),
	})
}

// ListInvitations lists the invitations of the caller's center
// @Summary List invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.InvitationListResponse} "Invitations"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor or admin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /invitations [get]
func (c *InvitationController) ListInvitations(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	invitations, err := c.invitationService.ListForCenter(ctx, id, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: invitations, Timestamp: time.Now()})
}
