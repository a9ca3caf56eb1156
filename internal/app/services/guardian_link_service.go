package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/auth"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

// GuardianLinkService defines the interface for guardian link operations
type GuardianLinkService interface {
	RequestLink(ctx context.Context, guardianID int64, req *dto.RequestLinkRequest) (*dto.GuardianLinkResponse, error)
	DecideLink(ctx context.Context, deciderID, linkID int64, req *dto.DecideLinkRequest) (*dto.GuardianLinkResponse, error)
	ListPendingForCenter(ctx context.Context, actorID int64) (*dto.GuardianLinkListResponse, error)
	ListForGuardian(ctx context.Context, guardianID int64) (*dto.GuardianLinkListResponse, error)
	ListChildren(ctx context.Context, guardianID int64) (*dto.ChildrenListResponse, error)
}

// GuardianLinkStore is the data access surface for guardian links
type GuardianLinkStore interface {
	Create(ctx context.Context, link *models.GuardianLink) error
	GetByID(ctx context.Context, id int64) (*models.GuardianLink, error)
	FindActive(ctx context.Context, guardianID, studentID int64) (*models.GuardianLink, error)
	Decide(ctx context.Context, id int64, status models.GuardianLinkStatus, deciderID int64, rejectionReason *string) (bool, error)
	ListPendingByCenter(ctx context.Context, centerID int64) ([]*models.GuardianLink, error)
	ListByGuardian(ctx context.Context, guardianID int64) ([]*models.GuardianLink, error)
	ListChildren(ctx context.Context, guardianID int64) ([]*models.Student, error)
}

// ProfileStore is the data access surface for profiles used across services
type ProfileStore interface {
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetByEmailAndRole(ctx context.Context, email string, role models.RoleType) (*models.Profile, error)
}

// StudentStore is the data access surface for student records used across services
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByProfileID(ctx context.Context, profileID int64) (*models.Student, error)
}

// guardianLinkServiceImpl implements GuardianLinkService
type guardianLinkServiceImpl struct {
	linkStore    GuardianLinkStore
	profileStore ProfileStore
	studentStore StudentStore
	access       *auth.AccessService
	logger       zerolog.Logger
}

// NewGuardianLinkService creates a new GuardianLinkService
func NewGuardianLinkService(
	linkStore GuardianLinkStore,
	profileStore ProfileStore,
	studentStore StudentStore,
	access *auth.AccessService,
	logger zerolog.Logger,
) GuardianLinkService {
	return &guardianLinkServiceImpl{
		linkStore:    linkStore,
		profileStore: profileStore,
		studentStore: studentStore,
		access:       access,
		logger:       logger,
	}
}

// RequestLink creates a pending link from a guardian to a student resolved
// by email. The pre-insert read gives precise duplicate errors; the partial
// unique index on the table is the authoritative check, so a constraint
// violation on insert is classified the same way.
func (s *guardianLinkServiceImpl) RequestLink(ctx context.Context, guardianID int64, req *dto.RequestLinkRequest) (*dto.GuardianLinkResponse, error) {
	guardian, err := s.profileStore.GetByID(ctx, guardianID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(guardian, models.RoleFamily); err != nil {
		return nil, err
	}

	studentProfile, err := s.profileStore.GetByEmailAndRole(ctx, req.StudentEmail, models.RoleStudent)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}

	student, err := s.studentStore.GetByProfileID(ctx, studentProfile.ID)
	if err != nil {
		return nil, err
	}

	existing, err := s.linkStore.FindActive(ctx, guardianID, student.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.LinkApproved {
			return nil, apperrors.ErrAlreadyLinked
		}
		return nil, apperrors.ErrDuplicateRequest
	}

	link := &models.GuardianLink{
		GuardianID:   guardianID,
		StudentID:    student.ID,
		Relationship: req.Relationship,
		Status:       models.LinkPending,
	}

	if err := s.linkStore.Create(ctx, link); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRequest) {
			// Lost a race with another request; classify against the row
			// that won.
			winner, ferr := s.linkStore.FindActive(ctx, guardianID, student.ID)
			if ferr == nil && winner != nil && winner.Status == models.LinkApproved {
				return nil, apperrors.ErrAlreadyLinked
			}
			return nil, apperrors.ErrDuplicateRequest
		}
		return nil, err
	}

	s.logger.Info().
		Int64("guardianID", guardianID).
		Int64("studentID", student.ID).
		Int64("linkID", link.ID).
		Msg("Guardian link requested")

	resp := dto.FromGuardianLink(link)
	return &resp, nil
}

// DecideLink moves a pending link to approved or rejected. Approved and
// rejected are terminal; deciding an already decided link fails.
func (s *guardianLinkServiceImpl) DecideLink(ctx context.Context, deciderID, linkID int64, req *dto.DecideLinkRequest) (*dto.GuardianLinkResponse, error) {
	decider, err := s.profileStore.GetByID(ctx, deciderID)
	if err != nil {
		return nil, err
	}

	link, err := s.linkStore.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentStore.GetByID(ctx, link.StudentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireTutorAtCenter(decider, student.CenterID); err != nil {
		return nil, err
	}

	if link.Status != models.LinkPending {
		return nil, apperrors.ErrLinkAlreadyDecided
	}

	var reason *string
	if req.Decision == models.LinkRejected {
		reason = req.RejectionReason
	}

	decided, err := s.linkStore.Decide(ctx, linkID, req.Decision, deciderID, reason)
	if err != nil {
		return nil, err
	}
	if !decided {
		// Another decision landed between our read and the update.
		return nil, apperrors.ErrLinkAlreadyDecided
	}

	s.logger.Info().
		Int64("linkID", linkID).
		Int64("deciderID", deciderID).
		Str("decision", string(req.Decision)).
		Msg("Guardian link decided")

	updated, err := s.linkStore.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromGuardianLink(updated)
	return &resp, nil
}

// ListPendingForCenter retrieves the pending link inbox for the actor's center
func (s *guardianLinkServiceImpl) ListPendingForCenter(ctx context.Context, actorID int64) (*dto.GuardianLinkListResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(actor, models.RoleTutor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.CenterID == nil {
		return nil, apperrors.ErrPermissionDenied
	}

	links, err := s.linkStore.ListPendingByCenter(ctx, *actor.CenterID)
	if err != nil {
		return nil, err
	}

	resp := &dto.GuardianLinkListResponse{Links: make([]dto.GuardianLinkResponse, 0, len(links))}
	for _, link := range links {
		resp.Links = append(resp.Links, dto.FromGuardianLink(link))
	}
	return resp, nil
}

// ListForGuardian retrieves all links of a guardian, any status
func (s *guardianLinkServiceImpl) ListForGuardian(ctx context.Context, guardianID int64) (*dto.GuardianLinkListResponse, error) {
	links, err := s.linkStore.ListByGuardian(ctx, guardianID)
	if err != nil {
		return nil, err
	}

	resp := &dto.GuardianLinkListResponse{Links: make([]dto.GuardianLinkResponse, 0, len(links))}
	for _, link := range links {
		resp.Links = append(resp.Links, dto.FromGuardianLink(link))
	}
	return resp, nil
}

// ListChildren retrieves the students a guardian holds approved links to
func (s *guardianLinkServiceImpl) ListChildren(ctx context.Context, guardianID int64) (*dto.ChildrenListResponse, error) {
	children, err := s.linkStore.ListChildren(ctx, guardianID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChildrenListResponse{Children: make([]dto.StudentResponse, 0, len(children))}
	for _, child := range children {
		resp.Children = append(resp.Children, dto.FromStudent(child))
	}
	return resp, nil
}
