package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/repositories"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/auth"
	"github.com/dmoran/orienta/internal/pkg/dberrors"
	"github.com/dmoran/orienta/internal/pkg/validation"
)

// ProfileEmailConstraint is the unique index on profile emails
const ProfileEmailConstraint = "profiles_email_key"

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	RegisterCompany(ctx context.Context, req *dto.RegisterCompanyRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, profileID int64) (*dto.ProfileResponse, error)
}

// authServiceImpl implements AuthService. Registration writes the profile,
// its role extension and the invitation consumption in one transaction, so
// it works on the concrete repositories rather than narrowed store
// interfaces.
type authServiceImpl struct {
	database       *db.PostgresDB
	profileRepo    *repositories.ProfileRepository
	studentRepo    *repositories.StudentRepository
	companyRepo    *repositories.CompanyRepository
	invitationRepo *repositories.InvitationRepository
	jwtService     *auth.JWTService
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	database *db.PostgresDB,
	profileRepo *repositories.ProfileRepository,
	studentRepo *repositories.StudentRepository,
	companyRepo *repositories.CompanyRepository,
	invitationRepo *repositories.InvitationRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		database:       database,
		profileRepo:    profileRepo,
		studentRepo:    studentRepo,
		companyRepo:    companyRepo,
		invitationRepo: invitationRepo,
		jwtService:     jwtService,
		logger:         logger,
	}
}

func (s *authServiceImpl) buildAuthResponse(profile *models.Profile) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(profile)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		TokenResponse: dto.TokenResponse{
			AccessToken:      accessToken,
			RefreshToken:     refreshToken,
			ExpiresIn:        expiresIn,
			RefreshExpiresIn: refreshExpiresIn,
			TokenType:        "Bearer",
		},
		Profile: dto.FromProfile(profile),
	}, nil
}

// Register creates a profile from an invitation code. The code fixes the
// role and center; student invitations also create the academic record.
// Everything lands in one transaction together with the code consumption.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.AcademicYear != nil && !validation.CompiledPatterns.AcademicYear.MatchString(*req.AcademicYear) {
		return nil, apperrors.NewValidationError("academicYear must use the 2025-2026 format")
	}

	inv, err := s.invitationRepo.GetByCode(ctx, req.InvitationCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch {
	case inv.UsedBy != nil:
		return nil, apperrors.ErrInvitationUsed
	case inv.IsRevoked:
		return nil, apperrors.ErrInvitationNotFound
	case !now.Before(inv.ExpiresAt):
		return nil, apperrors.ErrInvitationExpired
	}

	// An invitation issued for a specific address is only redeemable there.
	if inv.Email != nil && *inv.Email != req.Email {
		return nil, apperrors.NewBadRequestError("invitation was issued for a different email address")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:     req.Email,
		Password:  hashed,
		Role:      inv.Role,
		CenterID:  &inv.CenterID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.profileRepo.CreateTx(ctx, tx, profile); err != nil {
			if dberrors.IsDuplicateConstraintError(err, ProfileEmailConstraint) {
				return apperrors.ErrEmailAlreadyExists
			}
			return err
		}

		if inv.Role == models.RoleStudent {
			student := &models.Student{
				ProfileID:     profile.ID,
				CenterID:      inv.CenterID,
				CourseYear:    req.CourseYear,
				GroupName:     req.GroupName,
				AcademicYear:  req.AcademicYear,
				Interests:     req.Interests,
				PreferredPath: req.PreferredPath,
			}
			if student.Interests == nil {
				student.Interests = []string{}
			}
			if err := s.studentRepo.CreateTx(ctx, tx, student); err != nil {
				return err
			}
		}

		consumed, err := s.invitationRepo.MarkUsedTx(ctx, tx, inv.ID, profile.ID)
		if err != nil {
			return err
		}
		if !consumed {
			// Someone redeemed or revoked the code between our read and now.
			return apperrors.ErrInvitationUsed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("profileID", profile.ID).
		Str("role", string(profile.Role)).
		Int64("centerID", inv.CenterID).
		Msg("Profile registered via invitation")

	return s.buildAuthResponse(profile)
}

// RegisterCompany creates a company profile without an invitation. The
// company starts in pending status and cannot publish events until an admin
// approves it.
func (s *authServiceImpl) RegisterCompany(ctx context.Context, req *dto.RegisterCompanyRequest) (*dto.AuthResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:     req.Email,
		Password:  hashed,
		Role:      models.RoleCompany,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.profileRepo.CreateTx(ctx, tx, profile); err != nil {
			if dberrors.IsDuplicateConstraintError(err, ProfileEmailConstraint) {
				return apperrors.ErrEmailAlreadyExists
			}
			return err
		}

		company := &models.Company{
			ProfileID: profile.ID,
			Name:      req.CompanyName,
			TaxID:     req.TaxID,
			Sector:    req.Sector,
			Website:   req.Website,
			Status:    models.CompanyPending,
		}
		return s.companyRepo.CreateTx(ctx, tx, company)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("profileID", profile.ID).
		Str("company", req.CompanyName).
		Msg("Company registered, awaiting approval")

	return s.buildAuthResponse(profile)
}

// Login verifies credentials and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(profile.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !profile.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.profileRepo.UpdateLastLogin(ctx, profile.ID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Int64("profileID", profile.ID).Msg("Failed to record last login")
	}

	return s.buildAuthResponse(profile)
}

// GetProfile retrieves the authenticated profile
func (s *authServiceImpl) GetProfile(ctx context.Context, profileID int64) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromProfile(profile)
	return &resp, nil
}
