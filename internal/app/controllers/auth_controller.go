package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
)

// AuthController handles authentication operations
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles invitation-based registration
// @Summary Register with an invitation code
// @Description Creates a profile bound to the invitation's center and role. Student invitations also create the academic record.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Profile created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Invitation not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 410 {object} dto.ErrorResponse "Invitation expired or used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid registration data", err)))
		return
	}

	resp, err := c.authService.Register(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// RegisterCompany handles company self-registration
// @Summary Register a company
// @Description Creates a company profile in pending status awaiting admin approval
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterCompanyRequest true "Company registration data"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Company profile created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register/company [post]
func (c *AuthController) RegisterCompany(ctx *gin.Context) {
	var req dto.RegisterCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid registration data", err)))
		return
	}

	resp, err := c.authService.RegisterCompany(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Login handles login
// @Summary Log in
// @Description Verifies credentials and returns a token pair with the profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid login data", err)))
		return
	}

	resp, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// GetMe retrieves the authenticated profile
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/me [get]
func (c *AuthController) GetMe(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	resp, err := c.authService.GetProfile(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}
