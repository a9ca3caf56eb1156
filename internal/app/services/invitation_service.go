package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/auth"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/repositories"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/helpers"
)

// codeAlphabet omits 0, O, 1 and I so codes survive being read aloud or
// copied from paper. Its length divides 256, so byte-mod sampling is unbiased.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of invitation codes
const CodeLength = 8

// maxCodeAttempts bounds collision retries before giving up
const maxCodeAttempts = 5

// InvitationService defines the interface for invitation code operations
type InvitationService interface {
	CreateInvitation(ctx context.Context, actorID int64, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error)
	ValidateCode(ctx context.Context, code string) (*dto.InvitationResponse, error)
	RevokeInvitation(ctx context.Context, actorID, invitationID int64) error
	ListForCenter(ctx context.Context, actorID int64, page, pageSize int) (*dto.InvitationListResponse, error)
}

// InvitationStore is the data access surface for invitations
type InvitationStore interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByCode(ctx context.Context, code string) (*models.Invitation, error)
	GetByID(ctx context.Context, id int64) (*models.Invitation, error)
	Revoke(ctx context.Context, id int64) (bool, error)
	ListByCenter(ctx context.Context, centerID int64, offset uint64, limit int) ([]*models.Invitation, int64, error)
}

// invitationServiceImpl implements InvitationService
type invitationServiceImpl struct {
	invitationStore   InvitationStore
	profileStore      ProfileStore
	access            *auth.AccessService
	defaultExpiryDays int
	logger            zerolog.Logger
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(
	invitationStore InvitationStore,
	profileStore ProfileStore,
	access *auth.AccessService,
	defaultExpiryDays int,
	logger zerolog.Logger,
) InvitationService {
	return &invitationServiceImpl{
		invitationStore:   invitationStore,
		profileStore:      profileStore,
		access:            access,
		defaultExpiryDays: defaultExpiryDays,
		logger:            logger,
	}
}

// GenerateCode produces a random invitation code from the code alphabet
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating invitation code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// CreateInvitation generates a unique code bound to the actor's center and
// the requested role. Uniqueness belongs to this service: on a store
// collision it generates a fresh code and retries.
func (s *invitationServiceImpl) CreateInvitation(ctx context.Context, actorID int64, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
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

	expiryDays := req.ExpiresInDays
	if expiryDays <= 0 {
		expiryDays = s.defaultExpiryDays
	}

	inv := &models.Invitation{
		CenterID:  *actor.CenterID,
		Role:      req.Role,
		Email:     req.Email,
		CreatedBy: actorID,
		ExpiresAt: time.Now().AddDate(0, 0, expiryDays),
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		inv.Code = code

		err = s.invitationStore.Create(ctx, inv)
		if err == nil {
			s.logger.Info().
				Int64("invitationID", inv.ID).
				Int64("centerID", inv.CenterID).
				Str("role", string(inv.Role)).
				Msg("Invitation created")

			resp := dto.FromInvitation(inv)
			return &resp, nil
		}
		if !errors.Is(err, repositories.ErrCodeCollision) {
			return nil, err
		}
		s.logger.Warn().Str("code", code).Msg("Invitation code collision, retrying")
	}

	return nil, fmt.Errorf("could not generate a unique invitation code after %d attempts", maxCodeAttempts)
}

// ValidateCode checks whether a code can still be redeemed. Registration
// performs the actual consumption transactionally; this exists so clients
// can verify a code before collecting the rest of the form.
func (s *invitationServiceImpl) ValidateCode(ctx context.Context, code string) (*dto.InvitationResponse, error) {
	inv, err := s.invitationStore.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if inv.UsedBy != nil {
		return nil, apperrors.ErrInvitationUsed
	}
	if inv.IsRevoked {
		return nil, apperrors.ErrInvitationNotFound
	}
	if !now.Before(inv.ExpiresAt) {
		return nil, apperrors.ErrInvitationExpired
	}

	resp := dto.FromInvitation(inv)
	return &resp, nil
}

// RevokeInvitation voids an unused invitation of the actor's center
func (s *invitationServiceImpl) RevokeInvitation(ctx context.Context, actorID, invitationID int64) error {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	inv, err := s.invitationStore.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if err := s.access.RequireTutorAtCenter(actor, inv.CenterID); err != nil {
		return err
	}

	ok, err := s.invitationStore.Revoke(ctx, invitationID)
	if err != nil {
		return err
	}
	if !ok {
		if inv.UsedBy != nil {
			return apperrors.ErrInvitationUsed
		}
		return apperrors.ErrInvitationNotFound
	}

	return nil
}

// ListForCenter retrieves the invitations of the actor's center
func (s *invitationServiceImpl) ListForCenter(ctx context.Context, actorID int64, page, pageSize int) (*dto.InvitationListResponse, error) {
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

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	invitations, total, err := s.invitationStore.ListByCenter(ctx, *actor.CenterID, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.InvitationListResponse{
		Invitations:    make([]dto.InvitationResponse, 0, len(invitations)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, inv := range invitations {
		resp.Invitations = append(resp.Invitations, dto.FromInvitation(inv))
	}
	return resp, nil
}
