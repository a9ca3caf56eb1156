package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

type eventFixture struct {
	service EventService
	events  *fakeEventStore

	tutor          *models.Profile
	otherTutor     *models.Profile
	companyProfile *models.Profile
	pendingProfile *models.Profile
	company        *models.Company
	studentA       *models.Profile
	studentB       *models.Profile
	studentC       *models.Profile
}

func newEventFixture() *eventFixture {
	tutor := testProfile(30, models.RoleTutor, ptr(int64(1)))
	otherTutor := testProfile(31, models.RoleTutor, ptr(int64(2)))
	companyProfile := testProfile(50, models.RoleCompany, nil)
	pendingProfile := testProfile(51, models.RoleCompany, nil)
	studentA := testProfile(20, models.RoleStudent, ptr(int64(1)))
	studentB := testProfile(21, models.RoleStudent, ptr(int64(1)))
	studentC := testProfile(22, models.RoleStudent, ptr(int64(1)))

	company := &models.Company{ID: 5, ProfileID: companyProfile.ID, Name: "Acme Formación", Status: models.CompanyApproved}
	pendingCompany := &models.Company{ID: 6, ProfileID: pendingProfile.ID, Name: "Pending SL", Status: models.CompanyPending}

	profiles := newFakeProfileStore(tutor, otherTutor, companyProfile, pendingProfile, studentA, studentB, studentC)
	students := newFakeStudentStore(
		testStudent(2, studentA.ID, 1),
		testStudent(3, studentB.ID, 1),
		testStudent(4, studentC.ID, 1),
	)
	links := newFakeLinkStore(students)
	events := newFakeEventStore()
	companies := newFakeCompanyStore(company, pendingCompany)

	service := NewEventService(events, profiles, students, companies, newTestAccess(students, links), nopLogger)

	return &eventFixture{
		service:        service,
		events:         events,
		tutor:          tutor,
		otherTutor:     otherTutor,
		companyProfile: companyProfile,
		pendingProfile: pendingProfile,
		company:        company,
		studentA:       studentA,
		studentB:       studentB,
		studentC:       studentC,
	}
}

// publishedEvent seeds a published event at center 1 with the given capacity.
func (f *eventFixture) publishedEvent(capacity *int) *models.Event {
	event := &models.Event{
		CenterID:  1,
		CreatedBy: f.tutor.ID,
		Title:     "University fair",
		Type:      models.EventFair,
		Status:    models.EventPublished,
		Capacity:  capacity,
		StartsAt:  time.Now().Add(48 * time.Hour),
	}
	_ = f.events.Create(context.Background(), event)
	return event
}

func TestCreateEventTutorDraft(t *testing.T) {
	f := newEventFixture()

	resp, err := f.service.CreateEvent(context.Background(), f.tutor.ID, &dto.CreateEventRequest{
		Title:        "Career talk",
		Type:         models.EventTalk,
		StartsAt:     time.Now().Add(24 * time.Hour),
		TargetGrades: []string{"4ESO", "1BACH"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventDraft, resp.Status)
	assert.Equal(t, int64(1), resp.CenterID)
	assert.Nil(t, resp.CompanyID)
	assert.Equal(t, []string{"4ESO", "1BACH"}, resp.TargetGrades)
}

func TestCreateEventTutoringSession(t *testing.T) {
	f := newEventFixture()

	resp, err := f.service.CreateEvent(context.Background(), f.tutor.ID, &dto.CreateEventRequest{
		Title:    "Individual guidance session",
		Type:     models.EventTutoring,
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventTutoring, resp.Type)
	assert.Empty(t, resp.TargetGrades)
}

func TestCreateEventCompanyAwaitsApproval(t *testing.T) {
	f := newEventFixture()

	resp, err := f.service.CreateEvent(context.Background(), f.companyProfile.ID, &dto.CreateEventRequest{
		Title:    "Company visit",
		Type:     models.EventVisit,
		StartsAt: time.Now().Add(24 * time.Hour),
		CenterID: ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventPending, resp.Status)
	require.NotNil(t, resp.CompanyID)
	assert.Equal(t, f.company.ID, *resp.CompanyID)
}

func TestCreateEventCompanyNotApproved(t *testing.T) {
	f := newEventFixture()

	_, err := f.service.CreateEvent(context.Background(), f.pendingProfile.ID, &dto.CreateEventRequest{
		Title:    "Company visit",
		Type:     models.EventVisit,
		StartsAt: time.Now().Add(24 * time.Hour),
		CenterID: ptr(int64(1)),
	})
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotApproved)
}

func TestCreateEventCompanyRequiresCenter(t *testing.T) {
	f := newEventFixture()

	_, err := f.service.CreateEvent(context.Background(), f.companyProfile.ID, &dto.CreateEventRequest{
		Title:    "Company visit",
		Type:     models.EventVisit,
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestCreateEventStudentDenied(t *testing.T) {
	f := newEventFixture()

	_, err := f.service.CreateEvent(context.Background(), f.studentA.ID, &dto.CreateEventRequest{
		Title:    "Student party",
		Type:     models.EventOpenDay,
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPublishEvent(t *testing.T) {
	f := newEventFixture()

	draft, err := f.service.CreateEvent(context.Background(), f.tutor.ID, &dto.CreateEventRequest{
		Title:    "Workshop",
		Type:     models.EventWorkshop,
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	resp, err := f.service.PublishEvent(context.Background(), f.tutor.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventPublished, resp.Status)

	// A second publish is a conflict.
	_, err = f.service.PublishEvent(context.Background(), f.tutor.ID, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDecideEvent(t *testing.T) {
	f := newEventFixture()

	pending, err := f.service.CreateEvent(context.Background(), f.companyProfile.ID, &dto.CreateEventRequest{
		Title:    "Company visit",
		Type:     models.EventVisit,
		StartsAt: time.Now().Add(24 * time.Hour),
		CenterID: ptr(int64(1)),
	})
	require.NoError(t, err)

	// Rejecting without a reason is refused.
	_, err = f.service.DecideEvent(context.Background(), f.tutor.ID, pending.ID, &dto.DecideEventRequest{
		Approve: false,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	resp, err := f.service.DecideEvent(context.Background(), f.tutor.ID, pending.ID, &dto.DecideEventRequest{
		Approve: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventApproved, resp.Status)

	// The decision is one-shot.
	_, err = f.service.DecideEvent(context.Background(), f.tutor.ID, pending.ID, &dto.DecideEventRequest{
		Approve: true,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// An approved event still needs an explicit publish to go live.
	published, err := f.service.PublishEvent(context.Background(), f.tutor.ID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventPublished, published.Status)
}

func TestDecideEventRejectKeepsReason(t *testing.T) {
	f := newEventFixture()

	pending, err := f.service.CreateEvent(context.Background(), f.companyProfile.ID, &dto.CreateEventRequest{
		Title:    "Company visit",
		Type:     models.EventVisit,
		StartsAt: time.Now().Add(24 * time.Hour),
		CenterID: ptr(int64(1)),
	})
	require.NoError(t, err)

	reason := "clashes with exam week"
	resp, err := f.service.DecideEvent(context.Background(), f.tutor.ID, pending.ID, &dto.DecideEventRequest{
		Approve:         false,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventRejected, resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, reason, *resp.RejectionReason)
}

func TestRegisterUntilFull(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(2))

	regA, err := f.service.Register(context.Background(), f.studentA.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, regA.Status)

	_, err = f.service.Register(context.Background(), f.studentB.ID, event.ID)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), f.studentC.ID, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrEventFull)
}

func TestRegisterUnlimitedCapacity(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(nil)

	for _, p := range []*models.Profile{f.studentA, f.studentB, f.studentC} {
		_, err := f.service.Register(context.Background(), p.ID, event.ID)
		require.NoError(t, err)
	}
}

func TestRegisterNotPublished(t *testing.T) {
	f := newEventFixture()

	draft, err := f.service.CreateEvent(context.Background(), f.tutor.ID, &dto.CreateEventRequest{
		Title:    "Workshop",
		Type:     models.EventWorkshop,
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), f.studentA.ID, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrEventNotOpen)
}

func TestRegisterTwice(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(5))

	_, err := f.service.Register(context.Background(), f.studentA.ID, event.ID)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), f.studentA.ID, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestJoinWaitlistRequiresFullEvent(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(2))

	// With open places the waitlist is refused.
	_, err := f.service.JoinWaitlist(context.Background(), f.studentA.ID, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.service.Register(context.Background(), f.studentA.ID, event.ID)
	require.NoError(t, err)
	_, err = f.service.Register(context.Background(), f.studentB.ID, event.ID)
	require.NoError(t, err)

	reg, err := f.service.JoinWaitlist(context.Background(), f.studentC.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationWaitlisted, reg.Status)
	require.NotNil(t, reg.WaitlistPosition)
	assert.Equal(t, 1, *reg.WaitlistPosition)
}

func TestCancelRegistrationPromotesWaitlistHead(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(1))

	_, err := f.service.Register(context.Background(), f.studentA.ID, event.ID)
	require.NoError(t, err)

	regB, err := f.service.JoinWaitlist(context.Background(), f.studentB.ID, event.ID)
	require.NoError(t, err)
	regC, err := f.service.JoinWaitlist(context.Background(), f.studentC.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *regB.WaitlistPosition)
	assert.Equal(t, 2, *regC.WaitlistPosition)

	require.NoError(t, f.service.CancelRegistration(context.Background(), f.studentA.ID, event.ID))

	// The earliest waitlist entry takes the freed place.
	regs, err := f.service.ListRegistrations(context.Background(), f.tutor.ID, event.ID)
	require.NoError(t, err)

	byStudent := make(map[int64]dto.EventRegistrationResponse)
	for _, r := range regs {
		byStudent[r.StudentID] = r
	}
	assert.Equal(t, models.RegistrationCancelled, byStudent[2].Status)
	assert.Equal(t, models.RegistrationConfirmed, byStudent[3].Status)
	assert.Equal(t, models.RegistrationWaitlisted, byStudent[4].Status)
}

func TestCancelRegistrationWithoutRegistration(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(1))

	err := f.service.CancelRegistration(context.Background(), f.studentA.ID, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}

func TestMarkAttendance(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(5))

	_, err := f.service.Register(context.Background(), f.studentA.ID, event.ID)
	require.NoError(t, err)

	err = f.service.MarkAttendance(context.Background(), f.tutor.ID, event.ID, &dto.MarkAttendanceRequest{
		StudentID: 2,
		Attended:  true,
	})
	require.NoError(t, err)

	regs, err := f.service.ListRegistrations(context.Background(), f.tutor.ID, event.ID)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, models.RegistrationAttended, regs[0].Status)
}

func TestMarkAttendanceUnknownRegistration(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(5))

	err := f.service.MarkAttendance(context.Background(), f.tutor.ID, event.ID, &dto.MarkAttendanceRequest{
		StudentID: 2,
		Attended:  false,
	})
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}

func TestMarkAttendanceWrongCenter(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(ptr(5))

	err := f.service.MarkAttendance(context.Background(), f.otherTutor.ID, event.ID, &dto.MarkAttendanceRequest{
		StudentID: 2,
		Attended:  true,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListEventsStudentSeesPublishedOnly(t *testing.T) {
	f := newEventFixture()
	f.publishedEvent(nil)

	_, err := f.service.CreateEvent(context.Background(), f.tutor.ID, &dto.CreateEventRequest{
		Title:    "Unpublished workshop",
		Type:     models.EventWorkshop,
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	filter := &dto.EventFilterRequest{Page: 1, PageSize: 10}

	list, err := f.service.ListEvents(context.Background(), f.studentA.ID, filter)
	require.NoError(t, err)
	require.Len(t, list.Events, 1)
	assert.Equal(t, models.EventPublished, list.Events[0].Status)

	// The tutor sees both.
	list, err = f.service.ListEvents(context.Background(), f.tutor.ID, filter)
	require.NoError(t, err)
	assert.Len(t, list.Events, 2)
}

func TestListEventsCompanySeesOwnSubmissions(t *testing.T) {
	f := newEventFixture()
	f.publishedEvent(nil)

	_, err := f.service.CreateEvent(context.Background(), f.companyProfile.ID, &dto.CreateEventRequest{
		Title:    "Company visit",
		Type:     models.EventVisit,
		StartsAt: time.Now().Add(24 * time.Hour),
		CenterID: ptr(int64(1)),
	})
	require.NoError(t, err)

	list, err := f.service.ListEvents(context.Background(), f.companyProfile.ID, &dto.EventFilterRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list.Events, 1)
	assert.Equal(t, f.companyProfile.ID, list.Events[0].CreatedBy)
}

func TestCancelEvent(t *testing.T) {
	f := newEventFixture()
	event := f.publishedEvent(nil)

	// A company cannot cancel somebody else's event.
	_, err := f.service.CancelEvent(context.Background(), f.companyProfile.ID, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	resp, err := f.service.CancelEvent(context.Background(), f.tutor.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventCancelled, resp.Status)

	// A finished or cancelled event cannot be cancelled again.
	_, err = f.service.CancelEvent(context.Background(), f.tutor.ID, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
