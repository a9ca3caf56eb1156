// Package auth contains the role-based visibility rules. Every read path
// that exposes student data goes through AccessService instead of ad hoc
// role checks in controllers.
package auth

import (
	"context"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

// StudentStore is the subset of the student repository the access rules need
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByProfileID(ctx context.Context, profileID int64) (*models.Student, error)
	ListIDsByCenter(ctx context.Context, centerID int64) ([]int64, error)
}

// LinkStore is the subset of the guardian link repository the access rules need
type LinkStore interface {
	FindActive(ctx context.Context, guardianID, studentID int64) (*models.GuardianLink, error)
	ListApprovedStudentIDs(ctx context.Context, guardianID int64) ([]int64, error)
}

// AccessService resolves which students a profile may see
type AccessService struct {
	studentStore StudentStore
	linkStore    LinkStore
}

// NewAccessService creates a new AccessService
func NewAccessService(studentStore StudentStore, linkStore LinkStore) *AccessService {
	return &AccessService{
		studentStore: studentStore,
		linkStore:    linkStore,
	}
}

// VisibleStudentIDs returns the set of student IDs the profile may see.
// A nil slice means unrestricted (admin); a non-nil empty slice means no
// students at all. Guardians see approved-link students only, never pending
// or rejected ones.
func (s *AccessService) VisibleStudentIDs(ctx context.Context, profile *models.Profile) ([]int64, error) {
	switch profile.Role {
	case models.RoleAdmin:
		return nil, nil

	case models.RoleTutor:
		if profile.CenterID == nil {
			return []int64{}, nil
		}
		ids, err := s.studentStore.ListIDsByCenter(ctx, *profile.CenterID)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []int64{}
		}
		return ids, nil

	case models.RoleFamily:
		ids, err := s.linkStore.ListApprovedStudentIDs(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			ids = []int64{}
		}
		return ids, nil

	case models.RoleStudent:
		student, err := s.studentStore.GetByProfileID(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		return []int64{student.ID}, nil

	case models.RoleCompany:
		return []int64{}, nil

	default:
		return []int64{}, nil
	}
}

// CanViewStudent reports whether the profile may see the given student
func (s *AccessService) CanViewStudent(ctx context.Context, profile *models.Profile, studentID int64) (bool, error) {
	switch profile.Role {
	case models.RoleAdmin:
		return true, nil

	case models.RoleTutor:
		if profile.CenterID == nil {
			return false, nil
		}
		student, err := s.studentStore.GetByID(ctx, studentID)
		if err != nil {
			return false, err
		}
		return student.CenterID == *profile.CenterID, nil

	case models.RoleFamily:
		link, err := s.linkStore.FindActive(ctx, profile.ID, studentID)
		if err != nil {
			return false, err
		}
		return link != nil && link.Status == models.LinkApproved, nil

	case models.RoleStudent:
		student, err := s.studentStore.GetByProfileID(ctx, profile.ID)
		if err != nil {
			return false, err
		}
		return student.ID == studentID, nil

	case models.RoleCompany:
		return false, nil

	default:
		return false, nil
	}
}

// RequireViewStudent returns ErrPermissionDenied unless the profile may see
// the student.
func (s *AccessService) RequireViewStudent(ctx context.Context, profile *models.Profile, studentID int64) error {
	ok, err := s.CanViewStudent(ctx, profile, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// RequireRole returns ErrPermissionDenied unless the profile holds one of
// the given roles.
func (s *AccessService) RequireRole(profile *models.Profile, roles ...models.RoleType) error {
	for _, role := range roles {
		if profile.Role == role {
			return nil
		}
	}
	return apperrors.ErrPermissionDenied
}

// RequireTutorAtCenter returns ErrPermissionDenied unless the profile is a
// tutor (or admin) attached to the given center.
func (s *AccessService) RequireTutorAtCenter(profile *models.Profile, centerID int64) error {
	if profile.Role == models.RoleAdmin {
		return nil
	}
	if profile.Role != models.RoleTutor {
		return apperrors.ErrPermissionDenied
	}
	if profile.CenterID == nil || *profile.CenterID != centerID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
