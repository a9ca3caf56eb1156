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

// ResourceService defines the interface for orientation resource operations
type ResourceService interface {
	CreateResource(ctx context.Context, actorID int64, req *dto.CreateResourceRequest) (*dto.ResourceResponse, error)
	UpdateResource(ctx context.Context, actorID, resourceID int64, req *dto.UpdateResourceRequest) (*dto.ResourceResponse, error)
	DecideResource(ctx context.Context, actorID, resourceID int64, req *dto.DecideResourceRequest) (*dto.ResourceResponse, error)
	PublishResource(ctx context.Context, actorID, resourceID int64) (*dto.ResourceResponse, error)
	GetResource(ctx context.Context, actorID, resourceID int64) (*dto.ResourceResponse, error)
	ListResources(ctx context.Context, actorID int64, filter *dto.ResourceFilterRequest) (*dto.ResourceListResponse, error)
}

// ResourceStore is the data access surface for resources
type ResourceStore interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id int64) (*models.Resource, error)
	Update(ctx context.Context, resource *models.Resource) error
	UpdateStatus(ctx context.Context, id int64, from []models.ResourceStatus, to models.ResourceStatus, rejectionReason *string) (bool, error)
	IncrementViewCount(ctx context.Context, id int64) error
	List(ctx context.Context, centerID *int64, audiences []models.ResourceAudience, includeUnpublished bool, filter *models.ResourceFilter, offset uint64, limit int) ([]*models.Resource, int64, error)
}

// resourceServiceImpl implements ResourceService
type resourceServiceImpl struct {
	resourceStore ResourceStore
	profileStore  ProfileStore
	companyStore  CompanyStore
	access        *auth.AccessService
	logger        zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	resourceStore ResourceStore,
	profileStore ProfileStore,
	companyStore CompanyStore,
	access *auth.AccessService,
	logger zerolog.Logger,
) ResourceService {
	return &resourceServiceImpl{
		resourceStore: resourceStore,
		profileStore:  profileStore,
		companyStore:  companyStore,
		access:        access,
		logger:        logger,
	}
}

// audiencesForRole maps a viewer role to the audiences it may read.
// Unknown roles see nothing beyond 'all'.
func audiencesForRole(role models.RoleType) []models.ResourceAudience {
	switch role {
	case models.RoleStudent:
		return []models.ResourceAudience{models.AudienceAll, models.AudienceStudents}
	case models.RoleFamily:
		return []models.ResourceAudience{models.AudienceAll, models.AudienceFamilies}
	case models.RoleTutor, models.RoleAdmin:
		return nil // staff see every audience
	default:
		return []models.ResourceAudience{models.AudienceAll}
	}
}

// CreateResource creates a resource. Tutors and admins create drafts for
// their own center; companies need an approved company record and their
// resources start in pending_approval awaiting a center decision.
func (s *resourceServiceImpl) CreateResource(ctx context.Context, actorID int64, req *dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	resource := &models.Resource{
		CreatedBy:   actorID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		URL:         req.URL,
		Audience:    req.Audience,
	}

	switch actor.Role {
	case models.RoleTutor, models.RoleAdmin:
		resource.CenterID = actor.CenterID
		resource.Status = models.ResourceDraft

	case models.RoleCompany:
		company, err := s.companyStore.GetByProfileID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if company.Status != models.CompanyApproved {
			return nil, apperrors.ErrCompanyNotApproved
		}
		if req.CenterID == nil {
			return nil, apperrors.NewBadRequestError("centerId is required for company resources")
		}
		resource.CenterID = req.CenterID
		resource.CompanyID = &company.ID
		resource.Status = models.ResourcePending

	default:
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.resourceStore.Create(ctx, resource); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("resourceID", resource.ID).
		Str("status", string(resource.Status)).
		Msg("Resource created")

	resp := dto.FromResource(resource)
	return &resp, nil
}

// requireOwnerOrAdmin checks write access to a resource: an admin, the
// authoring tutor, or the authoring company.
func (s *resourceServiceImpl) requireOwnerOrAdmin(actor *models.Profile, resource *models.Resource) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if (actor.Role == models.RoleTutor || actor.Role == models.RoleCompany) && resource.CreatedBy == actor.ID {
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// UpdateResource updates a resource's editable fields
func (s *resourceServiceImpl) UpdateResource(ctx context.Context, actorID, resourceID int64, req *dto.UpdateResourceRequest) (*dto.ResourceResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	resource, err := s.resourceStore.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(actor, resource); err != nil {
		return nil, err
	}

	resource.Title = req.Title
	resource.Description = req.Description
	resource.URL = req.URL
	resource.Audience = req.Audience

	if err := s.resourceStore.Update(ctx, resource); err != nil {
		return nil, err
	}

	resp := dto.FromResource(resource)
	return &resp, nil
}

// DecideResource approves or rejects a resource awaiting approval.
// Approval publishes it directly; there is no separate approved state
// for resources.
func (s *resourceServiceImpl) DecideResource(ctx context.Context, actorID, resourceID int64, req *dto.DecideResourceRequest) (*dto.ResourceResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	resource, err := s.resourceStore.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.CenterID != nil {
		if err := s.access.RequireTutorAtCenter(actor, *resource.CenterID); err != nil {
			return nil, err
		}
	} else if err := s.access.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	to := models.ResourcePublished
	var reason *string
	if !req.Approve {
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return nil, apperrors.NewBadRequestError("a rejection reason is required")
		}
		to = models.ResourceRejected
		reason = req.RejectionReason
	}

	ok, err := s.resourceStore.UpdateStatus(ctx, resourceID, []models.ResourceStatus{models.ResourcePending}, to, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("resource is not awaiting approval")
	}

	updated, err := s.resourceStore.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromResource(updated)
	return &resp, nil
}

// PublishResource makes a staff draft visible to its audience. Company
// submissions reach published through DecideResource instead.
func (s *resourceServiceImpl) PublishResource(ctx context.Context, actorID, resourceID int64) (*dto.ResourceResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(actor, models.RoleTutor, models.RoleAdmin); err != nil {
		return nil, err
	}

	resource, err := s.resourceStore.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(actor, resource); err != nil {
		return nil, err
	}

	ok, err := s.resourceStore.UpdateStatus(ctx, resourceID, []models.ResourceStatus{models.ResourceDraft}, models.ResourcePublished, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("only draft resources can be published directly")
	}

	updated, err := s.resourceStore.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromResource(updated)
	return &resp, nil
}

// canViewUnpublished reports whether the actor may see a resource that
// is not published: staff, or the company that submitted it.
func canViewUnpublished(actor *models.Profile, resource *models.Resource) bool {
	if actor.Role == models.RoleTutor || actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleCompany && resource.CreatedBy == actor.ID
}

// GetResource retrieves a resource and counts the view. Drafts, pending
// submissions and rejections are hidden from the general audience.
func (s *resourceServiceImpl) GetResource(ctx context.Context, actorID, resourceID int64) (*dto.ResourceResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	resource, err := s.resourceStore.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	if resource.Status != models.ResourcePublished {
		if !canViewUnpublished(actor, resource) {
			return nil, apperrors.ErrContentNotFound
		}
	} else {
		if allowed := audiencesForRole(actor.Role); allowed != nil {
			visible := false
			for _, a := range allowed {
				if resource.Audience == a {
					visible = true
					break
				}
			}
			if !visible {
				return nil, apperrors.ErrContentNotFound
			}
		}
		if err := s.resourceStore.IncrementViewCount(ctx, resourceID); err != nil {
			s.logger.Warn().Err(err).Int64("resourceID", resourceID).Msg("Failed to count resource view")
		} else {
			resource.ViewCount++
		}
	}

	resp := dto.FromResource(resource)
	return &resp, nil
}

// ListResources retrieves resources scoped by role: students and
// families see published resources for their audience, staff see every
// state at their center, companies see their own submissions.
func (s *resourceServiceImpl) ListResources(ctx context.Context, actorID int64, filter *dto.ResourceFilterRequest) (*dto.ResourceListResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	audiences := audiencesForRole(actor.Role)
	staff := actor.Role == models.RoleTutor || actor.Role == models.RoleAdmin

	modelFilter := &models.ResourceFilter{
		Type:   filter.Type,
		Search: filter.Search,
	}
	if staff {
		modelFilter.Status = filter.Status
	}

	centerID := actor.CenterID
	includeUnpublished := staff
	if actor.Role == models.RoleCompany {
		centerID = nil
		audiences = nil
		includeUnpublished = true
		modelFilter.CreatedBy = &actorID
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	resources, total, err := s.resourceStore.List(ctx, centerID, audiences, includeUnpublished, modelFilter, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResourceListResponse{
		Resources:      make([]dto.ResourceResponse, 0, len(resources)),
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
	for _, resource := range resources {
		resp.Resources = append(resp.Resources, dto.FromResource(resource))
	}
	return resp, nil
}
