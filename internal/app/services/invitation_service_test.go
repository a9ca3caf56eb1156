package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

type invitationFixture struct {
	service     InvitationService
	invitations *fakeInvitationStore

	tutor      *models.Profile
	otherTutor *models.Profile
	student    *models.Profile
}

func newInvitationFixture() *invitationFixture {
	tutor := testProfile(30, models.RoleTutor, ptr(int64(1)))
	otherTutor := testProfile(31, models.RoleTutor, ptr(int64(2)))
	student := testProfile(20, models.RoleStudent, ptr(int64(1)))

	profiles := newFakeProfileStore(tutor, otherTutor, student)
	students := newFakeStudentStore()
	links := newFakeLinkStore(students)
	invitations := newFakeInvitationStore()

	service := NewInvitationService(invitations, profiles, newTestAccess(students, links), 30, nopLogger)

	return &invitationFixture{
		service:     service,
		invitations: invitations,
		tutor:       tutor,
		otherTutor:  otherTutor,
		student:     student,
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q in code %s", r, code)
		}
		seen[code] = true
	}
	// 50 independent 8-character draws colliding down to a handful would
	// point at a broken generator.
	assert.Greater(t, len(seen), 45)
}

func TestCreateInvitation(t *testing.T) {
	f := newInvitationFixture()

	resp, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Code, CodeLength)
	assert.Equal(t, int64(1), resp.CenterID)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.Equal(t, f.tutor.ID, resp.CreatedBy)

	// Default expiry applies when the request does not set one.
	expected := time.Now().AddDate(0, 0, 30)
	assert.WithinDuration(t, expected, resp.ExpiresAt, time.Minute)
}

func TestCreateInvitationCustomExpiry(t *testing.T) {
	f := newInvitationFixture()

	resp, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role:          models.RoleFamily,
		ExpiresInDays: 7,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), resp.ExpiresAt, time.Minute)
}

func TestCreateInvitationRetriesOnCollision(t *testing.T) {
	f := newInvitationFixture()
	f.invitations.collisions = 2

	resp, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Code, CodeLength)
}

func TestCreateInvitationGivesUpAfterRetries(t *testing.T) {
	f := newInvitationFixture()
	f.invitations.collisions = maxCodeAttempts

	_, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	assert.Error(t, err)
}

func TestCreateInvitationStudentDenied(t *testing.T) {
	f := newInvitationFixture()

	_, err := f.service.CreateInvitation(context.Background(), f.student.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestValidateCode(t *testing.T) {
	f := newInvitationFixture()

	created, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	resp, err := f.service.ValidateCode(context.Background(), created.Code)
	require.NoError(t, err)
	assert.Equal(t, created.Code, resp.Code)
	assert.Equal(t, models.RoleStudent, resp.Role)
}

func TestValidateCodeUnknown(t *testing.T) {
	f := newInvitationFixture()

	_, err := f.service.ValidateCode(context.Background(), "ZZZZZZZZ")
	assert.ErrorIs(t, err, apperrors.ErrInvitationNotFound)
}

func TestValidateCodeUsed(t *testing.T) {
	f := newInvitationFixture()

	created, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	inv := f.invitations.invitations[created.ID]
	inv.UsedBy = ptr(int64(99))
	now := time.Now()
	inv.UsedAt = &now

	_, err = f.service.ValidateCode(context.Background(), created.Code)
	assert.ErrorIs(t, err, apperrors.ErrInvitationUsed)
}

func TestValidateCodeExpired(t *testing.T) {
	f := newInvitationFixture()

	created, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	f.invitations.invitations[created.ID].ExpiresAt = time.Now().Add(-time.Hour)

	_, err = f.service.ValidateCode(context.Background(), created.Code)
	assert.ErrorIs(t, err, apperrors.ErrInvitationExpired)
}

func TestValidateCodeRevoked(t *testing.T) {
	f := newInvitationFixture()

	created, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeInvitation(context.Background(), f.tutor.ID, created.ID))

	// A revoked code is indistinguishable from a code that never existed.
	_, err = f.service.ValidateCode(context.Background(), created.Code)
	assert.ErrorIs(t, err, apperrors.ErrInvitationNotFound)
}

func TestRevokeInvitationWrongCenter(t *testing.T) {
	f := newInvitationFixture()

	created, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	err = f.service.RevokeInvitation(context.Background(), f.otherTutor.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRevokeInvitationAlreadyUsed(t *testing.T) {
	f := newInvitationFixture()

	created, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)

	f.invitations.invitations[created.ID].UsedBy = ptr(int64(99))

	err = f.service.RevokeInvitation(context.Background(), f.tutor.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvitationUsed)
}

func TestListForCenter(t *testing.T) {
	f := newInvitationFixture()

	_, err := f.service.CreateInvitation(context.Background(), f.tutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleStudent,
	})
	require.NoError(t, err)
	_, err = f.service.CreateInvitation(context.Background(), f.otherTutor.ID, &dto.CreateInvitationRequest{
		Role: models.RoleFamily,
	})
	require.NoError(t, err)

	list, err := f.service.ListForCenter(context.Background(), f.tutor.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Invitations, 1)
	assert.Equal(t, int64(1), list.Invitations[0].CenterID)
}
