package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

type resourceFixture struct {
	service   ResourceService
	resources *fakeResourceStore

	tutor          *models.Profile
	otherTutor     *models.Profile
	companyProfile *models.Profile
	pendingProfile *models.Profile
	company        *models.Company
	studentProfile *models.Profile
	familyProfile  *models.Profile
}

func newResourceFixture() *resourceFixture {
	tutor := testProfile(30, models.RoleTutor, ptr(int64(1)))
	otherTutor := testProfile(31, models.RoleTutor, ptr(int64(2)))
	companyProfile := testProfile(50, models.RoleCompany, nil)
	pendingProfile := testProfile(51, models.RoleCompany, nil)
	studentProfile := testProfile(20, models.RoleStudent, ptr(int64(1)))
	familyProfile := testProfile(10, models.RoleFamily, nil)

	company := &models.Company{ID: 5, ProfileID: companyProfile.ID, Name: "Acme Formación", Status: models.CompanyApproved}
	pendingCompany := &models.Company{ID: 6, ProfileID: pendingProfile.ID, Name: "Pending SL", Status: models.CompanyPending}

	profiles := newFakeProfileStore(tutor, otherTutor, companyProfile, pendingProfile, studentProfile, familyProfile)
	companies := newFakeCompanyStore(company, pendingCompany)
	resources := newFakeResourceStore()
	students := newFakeStudentStore(testStudent(2, studentProfile.ID, 1))
	links := newFakeLinkStore(students)

	service := NewResourceService(resources, profiles, companies, newTestAccess(students, links), nopLogger)

	return &resourceFixture{
		service:        service,
		resources:      resources,
		tutor:          tutor,
		otherTutor:     otherTutor,
		companyProfile: companyProfile,
		pendingProfile: pendingProfile,
		company:        company,
		studentProfile: studentProfile,
		familyProfile:  familyProfile,
	}
}

// tutorDraft creates a draft resource authored by the fixture tutor.
func (f *resourceFixture) tutorDraft(t *testing.T, audience models.ResourceAudience) *dto.ResourceResponse {
	t.Helper()
	resp, err := f.service.CreateResource(context.Background(), f.tutor.ID, &dto.CreateResourceRequest{
		Title:    "Choosing a vocational track",
		Type:     models.ResourceGuide,
		Audience: audience,
	})
	require.NoError(t, err)
	return resp
}

// companySubmission creates a pending resource submitted by the approved
// company for center 1.
func (f *resourceFixture) companySubmission(t *testing.T) *dto.ResourceResponse {
	t.Helper()
	resp, err := f.service.CreateResource(context.Background(), f.companyProfile.ID, &dto.CreateResourceRequest{
		Title:    "Apprenticeships at Acme",
		Type:     models.ResourceArticle,
		Audience: models.AudienceStudents,
		CenterID: ptr(int64(1)),
	})
	require.NoError(t, err)
	return resp
}

func TestCreateResourceTutorDraft(t *testing.T) {
	f := newResourceFixture()

	resp := f.tutorDraft(t, models.AudienceAll)
	assert.Equal(t, models.ResourceDraft, resp.Status)
	require.NotNil(t, resp.CenterID)
	assert.Equal(t, int64(1), *resp.CenterID)
	assert.Nil(t, resp.CompanyID)
	assert.Nil(t, resp.PublishedAt)
}

func TestCreateResourceCompanyAwaitsApproval(t *testing.T) {
	f := newResourceFixture()

	resp := f.companySubmission(t)
	assert.Equal(t, models.ResourcePending, resp.Status)
	require.NotNil(t, resp.CompanyID)
	assert.Equal(t, f.company.ID, *resp.CompanyID)
	require.NotNil(t, resp.CenterID)
	assert.Equal(t, int64(1), *resp.CenterID)
}

func TestCreateResourceCompanyNotApproved(t *testing.T) {
	f := newResourceFixture()

	_, err := f.service.CreateResource(context.Background(), f.pendingProfile.ID, &dto.CreateResourceRequest{
		Title:    "Apprenticeships",
		Type:     models.ResourceArticle,
		Audience: models.AudienceStudents,
		CenterID: ptr(int64(1)),
	})
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotApproved)
}

func TestCreateResourceCompanyRequiresCenter(t *testing.T) {
	f := newResourceFixture()

	_, err := f.service.CreateResource(context.Background(), f.companyProfile.ID, &dto.CreateResourceRequest{
		Title:    "Apprenticeships",
		Type:     models.ResourceArticle,
		Audience: models.AudienceStudents,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestCreateResourceStudentDenied(t *testing.T) {
	f := newResourceFixture()

	_, err := f.service.CreateResource(context.Background(), f.studentProfile.ID, &dto.CreateResourceRequest{
		Title:    "My notes",
		Type:     models.ResourceLink,
		Audience: models.AudienceAll,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDecideResource(t *testing.T) {
	f := newResourceFixture()
	pending := f.companySubmission(t)

	// Rejecting without a reason is refused.
	_, err := f.service.DecideResource(context.Background(), f.tutor.ID, pending.ID, &dto.DecideResourceRequest{
		Approve: false,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	resp, err := f.service.DecideResource(context.Background(), f.tutor.ID, pending.ID, &dto.DecideResourceRequest{
		Approve: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResourcePublished, resp.Status)
	assert.NotNil(t, resp.PublishedAt)

	// The decision is one-shot.
	_, err = f.service.DecideResource(context.Background(), f.tutor.ID, pending.ID, &dto.DecideResourceRequest{
		Approve: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDecideResourceRejectKeepsReason(t *testing.T) {
	f := newResourceFixture()
	pending := f.companySubmission(t)

	reason := "duplicate of the existing apprenticeship guide"
	resp, err := f.service.DecideResource(context.Background(), f.tutor.ID, pending.ID, &dto.DecideResourceRequest{
		Approve:         false,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResourceRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, reason, *resp.RejectionReason)
}

func TestDecideResourceWrongCenter(t *testing.T) {
	f := newResourceFixture()
	pending := f.companySubmission(t)

	_, err := f.service.DecideResource(context.Background(), f.otherTutor.ID, pending.ID, &dto.DecideResourceRequest{
		Approve: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPublishResourceDraftOnly(t *testing.T) {
	f := newResourceFixture()
	draft := f.tutorDraft(t, models.AudienceAll)

	resp, err := f.service.PublishResource(context.Background(), f.tutor.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResourcePublished, resp.Status)
	assert.NotNil(t, resp.PublishedAt)

	// A second publish is a conflict.
	_, err = f.service.PublishResource(context.Background(), f.tutor.ID, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPublishResourceCompanySubmissionDenied(t *testing.T) {
	f := newResourceFixture()
	pending := f.companySubmission(t)

	// Company submissions go through the decision flow, not direct publish.
	_, err := f.service.PublishResource(context.Background(), f.tutor.ID, pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetResourceHidesUnpublished(t *testing.T) {
	f := newResourceFixture()
	draft := f.tutorDraft(t, models.AudienceAll)
	pending := f.companySubmission(t)

	_, err := f.service.GetResource(context.Background(), f.studentProfile.ID, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)

	// The submitting company can follow its own pending resource.
	resp, err := f.service.GetResource(context.Background(), f.companyProfile.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResourcePending, resp.Status)

	// Unpublished views are not counted.
	assert.Equal(t, 0, resp.ViewCount)
}

func TestGetResourceAudience(t *testing.T) {
	f := newResourceFixture()
	draft := f.tutorDraft(t, models.AudienceTutors)
	_, err := f.service.PublishResource(context.Background(), f.tutor.ID, draft.ID)
	require.NoError(t, err)

	// A tutors-only resource is invisible to students.
	_, err = f.service.GetResource(context.Background(), f.studentProfile.ID, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrContentNotFound)

	resp, err := f.service.GetResource(context.Background(), f.tutor.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ViewCount)
}

func TestListResourcesByRole(t *testing.T) {
	f := newResourceFixture()
	published := f.tutorDraft(t, models.AudienceStudents)
	_, err := f.service.PublishResource(context.Background(), f.tutor.ID, published.ID)
	require.NoError(t, err)
	f.tutorDraft(t, models.AudienceAll)
	f.companySubmission(t)

	filter := &dto.ResourceFilterRequest{Page: 1, PageSize: 10}

	// The student sees only the published resource for their audience.
	list, err := f.service.ListResources(context.Background(), f.studentProfile.ID, filter)
	require.NoError(t, err)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, models.ResourcePublished, list.Resources[0].Status)

	// The tutor sees every status at the center.
	list, err = f.service.ListResources(context.Background(), f.tutor.ID, filter)
	require.NoError(t, err)
	assert.Len(t, list.Resources, 3)

	// The company sees its own submissions regardless of status.
	list, err = f.service.ListResources(context.Background(), f.companyProfile.ID, filter)
	require.NoError(t, err)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, f.companyProfile.ID, list.Resources[0].CreatedBy)
}

func TestListResourcesStatusFilterStaffOnly(t *testing.T) {
	f := newResourceFixture()
	f.tutorDraft(t, models.AudienceAll)

	status := models.ResourceDraft
	filter := &dto.ResourceFilterRequest{Status: &status, Page: 1, PageSize: 10}

	list, err := f.service.ListResources(context.Background(), f.tutor.ID, filter)
	require.NoError(t, err)
	assert.Len(t, list.Resources, 1)

	// For a family viewer the status filter is ignored and drafts stay hidden.
	list, err = f.service.ListResources(context.Background(), f.familyProfile.ID, filter)
	require.NoError(t, err)
	assert.Empty(t, list.Resources)
}
