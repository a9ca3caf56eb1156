package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

type stubStudentStore struct {
	students map[int64]*models.Student
}

func (s *stubStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return st, nil
}

func (s *stubStudentStore) GetByProfileID(_ context.Context, profileID int64) (*models.Student, error) {
	for _, st := range s.students {
		if st.ProfileID == profileID {
			return st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (s *stubStudentStore) ListIDsByCenter(_ context.Context, centerID int64) ([]int64, error) {
	var ids []int64
	for _, st := range s.students {
		if st.CenterID == centerID {
			ids = append(ids, st.ID)
		}
	}
	return ids, nil
}

type stubLinkStore struct {
	links []*models.GuardianLink
}

func (s *stubLinkStore) FindActive(_ context.Context, guardianID, studentID int64) (*models.GuardianLink, error) {
	for _, l := range s.links {
		if l.GuardianID == guardianID && l.StudentID == studentID && l.Status != models.LinkRejected {
			return l, nil
		}
	}
	return nil, nil
}

func (s *stubLinkStore) ListApprovedStudentIDs(_ context.Context, guardianID int64) ([]int64, error) {
	var ids []int64
	for _, l := range s.links {
		if l.GuardianID == guardianID && l.Status == models.LinkApproved {
			ids = append(ids, l.StudentID)
		}
	}
	return ids, nil
}

func int64Ptr(v int64) *int64 { return &v }

// Students 1 and 2 at center 1, student 3 at center 2. Guardian 10 holds an
// approved link to student 1 and a pending one to student 2.
func newAccessFixture() *AccessService {
	students := &stubStudentStore{students: map[int64]*models.Student{
		1: {ID: 1, ProfileID: 100, CenterID: 1},
		2: {ID: 2, ProfileID: 101, CenterID: 1},
		3: {ID: 3, ProfileID: 102, CenterID: 2},
	}}
	links := &stubLinkStore{links: []*models.GuardianLink{
		{ID: 1, GuardianID: 10, StudentID: 1, Status: models.LinkApproved},
		{ID: 2, GuardianID: 10, StudentID: 2, Status: models.LinkPending},
	}}
	return NewAccessService(students, links)
}

func TestVisibleStudentIDsAdmin(t *testing.T) {
	access := newAccessFixture()

	ids, err := access.VisibleStudentIDs(context.Background(), &models.Profile{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	// nil means unrestricted, as opposed to an empty set.
	assert.Nil(t, ids)
}

func TestVisibleStudentIDsTutor(t *testing.T) {
	access := newAccessFixture()

	ids, err := access.VisibleStudentIDs(context.Background(), &models.Profile{ID: 5, Role: models.RoleTutor, CenterID: int64Ptr(1)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)

	// A tutor without a center sees nobody rather than everybody.
	ids, err = access.VisibleStudentIDs(context.Background(), &models.Profile{ID: 6, Role: models.RoleTutor})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestVisibleStudentIDsFamily(t *testing.T) {
	access := newAccessFixture()

	ids, err := access.VisibleStudentIDs(context.Background(), &models.Profile{ID: 10, Role: models.RoleFamily})
	require.NoError(t, err)
	// Pending links grant nothing.
	assert.Equal(t, []int64{1}, ids)
}

func TestVisibleStudentIDsStudent(t *testing.T) {
	access := newAccessFixture()

	ids, err := access.VisibleStudentIDs(context.Background(), &models.Profile{ID: 100, Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestVisibleStudentIDsCompany(t *testing.T) {
	access := newAccessFixture()

	ids, err := access.VisibleStudentIDs(context.Background(), &models.Profile{ID: 50, Role: models.RoleCompany})
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestCanViewStudent(t *testing.T) {
	access := newAccessFixture()
	ctx := context.Background()

	tutor := &models.Profile{ID: 5, Role: models.RoleTutor, CenterID: int64Ptr(1)}
	ok, err := access.CanViewStudent(ctx, tutor, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Student 3 belongs to another center.
	ok, err = access.CanViewStudent(ctx, tutor, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	guardian := &models.Profile{ID: 10, Role: models.RoleFamily}
	ok, err = access.CanViewStudent(ctx, guardian, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// The pending link to student 2 does not grant visibility.
	ok, err = access.CanViewStudent(ctx, guardian, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	student := &models.Profile{ID: 100, Role: models.RoleStudent}
	ok, err = access.CanViewStudent(ctx, student, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = access.CanViewStudent(ctx, student, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequireViewStudent(t *testing.T) {
	access := newAccessFixture()

	company := &models.Profile{ID: 50, Role: models.RoleCompany}
	err := access.RequireViewStudent(context.Background(), company, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRequireRole(t *testing.T) {
	access := newAccessFixture()

	tutor := &models.Profile{ID: 5, Role: models.RoleTutor}
	assert.NoError(t, access.RequireRole(tutor, models.RoleTutor, models.RoleAdmin))
	assert.ErrorIs(t, access.RequireRole(tutor, models.RoleAdmin), apperrors.ErrPermissionDenied)
}

func TestRequireTutorAtCenter(t *testing.T) {
	access := newAccessFixture()

	admin := &models.Profile{ID: 1, Role: models.RoleAdmin}
	assert.NoError(t, access.RequireTutorAtCenter(admin, 1))

	tutor := &models.Profile{ID: 5, Role: models.RoleTutor, CenterID: int64Ptr(1)}
	assert.NoError(t, access.RequireTutorAtCenter(tutor, 1))
	assert.ErrorIs(t, access.RequireTutorAtCenter(tutor, 2), apperrors.ErrPermissionDenied)

	homeless := &models.Profile{ID: 6, Role: models.RoleTutor}
	assert.ErrorIs(t, access.RequireTutorAtCenter(homeless, 1), apperrors.ErrPermissionDenied)

	guardian := &models.Profile{ID: 10, Role: models.RoleFamily}
	assert.ErrorIs(t, access.RequireTutorAtCenter(guardian, 1), apperrors.ErrPermissionDenied)
}
