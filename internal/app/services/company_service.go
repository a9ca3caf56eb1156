package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/auth"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/helpers"
)

// CompanyService defines the interface for company lifecycle operations
type CompanyService interface {
	GetOwnCompany(ctx context.Context, actorID int64) (*dto.CompanyResponse, error)
	GetCompany(ctx context.Context, companyID int64) (*dto.CompanyResponse, error)
	UpdateCompany(ctx context.Context, actorID, companyID int64, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
	DecideCompany(ctx context.Context, actorID, companyID int64, req *dto.DecideCompanyRequest) (*dto.CompanyResponse, error)
	SuspendCompany(ctx context.Context, actorID, companyID int64) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context, actorID int64, filter *dto.CompanyFilterRequest) (*dto.CompanyListResponse, error)
}

// CompanyAdminStore is the full data access surface for companies
type CompanyAdminStore interface {
	CompanyStore
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	SetStatus(ctx context.Context, id int64, status models.CompanyStatus, deciderID int64, rejectionReason *string) (*models.Company, error)
	List(ctx context.Context, status *models.CompanyStatus, search *string, offset uint64, limit int) ([]*models.Company, int64, error)
}

// companyServiceImpl implements CompanyService
type companyServiceImpl struct {
	companyStore CompanyAdminStore
	profileStore ProfileStore
	access       *auth.AccessService
	logger       zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyStore CompanyAdminStore,
	profileStore ProfileStore,
	access *auth.AccessService,
	logger zerolog.Logger,
) CompanyService {
	return &companyServiceImpl{
		companyStore: companyStore,
		profileStore: profileStore,
		access:       access,
		logger:       logger,
	}
}

// GetOwnCompany retrieves the company attached to the acting profile
func (s *companyServiceImpl) GetOwnCompany(ctx context.Context, actorID int64) (*dto.CompanyResponse, error) {
	company, err := s.companyStore.GetByProfileID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromCompany(company)
	return &resp, nil
}

// GetCompany retrieves a company by ID
func (s *companyServiceImpl) GetCompany(ctx context.Context, companyID int64) (*dto.CompanyResponse, error) {
	company, err := s.companyStore.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromCompany(company)
	return &resp, nil
}

// UpdateCompany updates a company's own profile data
func (s *companyServiceImpl) UpdateCompany(ctx context.Context, actorID, companyID int64, req *dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	company, err := s.companyStore.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleAdmin && company.ProfileID != actorID {
		return nil, apperrors.ErrPermissionDenied
	}

	company.Name = req.Name
	company.TaxID = req.TaxID
	company.Sector = req.Sector
	company.Description = req.Description
	company.Website = req.Website

	if err := s.companyStore.Update(ctx, company); err != nil {
		return nil, err
	}

	resp := dto.FromCompany(company)
	return &resp, nil
}

// DecideCompany approves or rejects a company. Transitions are permissive:
// a rejected or suspended company may be approved later, and vice versa.
// Rejection always requires a reason.
func (s *companyServiceImpl) DecideCompany(ctx context.Context, actorID, companyID int64, req *dto.DecideCompanyRequest) (*dto.CompanyResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	status := models.CompanyApproved
	var reason *string
	if !req.Approve {
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return nil, apperrors.NewBadRequestError("a rejection reason is required")
		}
		status = models.CompanyRejected
		reason = req.RejectionReason
	}

	company, err := s.companyStore.SetStatus(ctx, companyID, status, actorID, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("companyID", companyID).
		Str("status", string(status)).
		Int64("deciderID", actorID).
		Msg("Company decided")

	resp := dto.FromCompany(company)
	return &resp, nil
}

// SuspendCompany suspends an approved company
func (s *companyServiceImpl) SuspendCompany(ctx context.Context, actorID, companyID int64) (*dto.CompanyResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	company, err := s.companyStore.SetStatus(ctx, companyID, models.CompanySuspended, actorID, nil)
	if err != nil {
		return nil, err
	}

	resp := dto.FromCompany(company)
	return &resp, nil
}

// ListCompanies retrieves companies for admin review
func (s *companyServiceImpl) ListCompanies(ctx context.Context, actorID int64, filter *dto.CompanyFilterRequest) (*dto.CompanyListResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(actor, models.RoleAdmin, models.RoleTutor); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	companies, total, err := s.companyStore.List(ctx, filter.Status, filter.Search, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompanyListResponse{
		Companies:      make([]dto.CompanyResponse, 0, len(companies)),
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
	for _, company := range companies {
		resp.Companies = append(resp.Companies, dto.FromCompany(company))
	}
	return resp, nil
}
