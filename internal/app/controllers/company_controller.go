package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
)

// CompanyController handles company lifecycle operations
type CompanyController struct {
	companyService services.CompanyService
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// GetOwnCompany retrieves the caller's company record
// @Summary Get own company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/me [get]
func (c *CompanyController) GetOwnCompany(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	company, err := c.companyService.GetOwnCompany(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: company, Timestamp: time.Now()})
}

// GetCompany retrieves a company by ID
// @Summary Get a company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [get]
func (c *CompanyController) GetCompany(ctx *gin.Context) {
	companyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	company, err := c.companyService.GetCompany(ctx, companyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: company, Timestamp: time.Now()})
}

// UpdateCompany updates company data
// @Summary Update a company
// @Description Company accounts update their own record; admins can update any
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [patch]
func (c *CompanyController) UpdateCompany(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid company data", err)))
		return
	}

	company, err := c.companyService.UpdateCompany(ctx, id, companyID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: company, Timestamp: time.Now()})
}

// DecideCompany approves or rejects a company
// @Summary Decide a company
// @Description An admin approves or rejects a company application
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param request body dto.DecideCompanyRequest true "Decision data"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company decided"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/decision [patch]
func (c *CompanyController) DecideCompany(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecideCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid decision data", err)))
		return
	}

	company, err := c.companyService.DecideCompany(ctx, id, companyID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: company, Timestamp: time.Now()})
}

// SuspendCompany suspends a company
// @Summary Suspend a company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company suspended"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/suspend [post]
func (c *CompanyController) SuspendCompany(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	companyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	company, err := c.companyService.SuspendCompany(ctx, id, companyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: company, Timestamp: time.Now()})
}

// ListCompanies lists companies
// @Summary List companies
// @Description Admins and tutors list companies with optional status and text filters
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by company status"
// @Param search query string false "Search in name and sector"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyListResponse} "Companies"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies [get]
func (c *CompanyController) ListCompanies(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var filter dto.CompanyFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid filter parameters", err)))
		return
	}

	companies, err := c.companyService.ListCompanies(ctx, id, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: companies, Timestamp: time.Now()})
}
