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

type planFixture struct {
	service PlanService
	plans   *fakePlanStore

	tutor          *models.Profile
	otherTutor     *models.Profile
	guardian       *models.Profile
	studentProfile *models.Profile
	student        *models.Student
}

func newPlanFixture() *planFixture {
	tutor := testProfile(30, models.RoleTutor, ptr(int64(1)))
	otherTutor := testProfile(31, models.RoleTutor, ptr(int64(2)))
	guardian := testProfile(10, models.RoleFamily, nil)
	studentProfile := testProfile(20, models.RoleStudent, ptr(int64(1)))
	student := testStudent(2, studentProfile.ID, 1)

	profiles := newFakeProfileStore(tutor, otherTutor, guardian, studentProfile)
	students := newFakeStudentStore(student)
	links := newFakeLinkStore(students, &models.GuardianLink{
		ID:         1,
		GuardianID: guardian.ID,
		StudentID:  student.ID,
		Status:     models.LinkApproved,
	})
	plans := newFakePlanStore()

	service := NewPlanService(plans, profiles, students, newTestAccess(students, links), nopLogger)

	return &planFixture{
		service:        service,
		plans:          plans,
		tutor:          tutor,
		otherTutor:     otherTutor,
		guardian:       guardian,
		studentProfile: studentProfile,
		student:        student,
	}
}

func (f *planFixture) createPlan(t *testing.T, itemTitles ...string) *dto.PlanResponse {
	t.Helper()
	req := &dto.CreatePlanRequest{
		StudentID: f.student.ID,
		Title:     "Bachillerato orientation",
	}
	for _, title := range itemTitles {
		req.Items = append(req.Items, dto.CreatePlanItemRequest{Title: title})
	}
	resp, err := f.service.CreatePlan(context.Background(), f.tutor.ID, req)
	require.NoError(t, err)
	return resp
}

func TestPlanProgress(t *testing.T) {
	assert.Equal(t, 0, models.PlanProgress(nil))

	items := []models.PlanItem{
		{Status: models.ItemCompleted},
		{Status: models.ItemPending},
		{Status: models.ItemSkipped},
	}
	assert.Equal(t, 33, models.PlanProgress(items))

	items[1].Status = models.ItemCompleted
	assert.Equal(t, 67, models.PlanProgress(items))

	items[2].Status = models.ItemCompleted
	assert.Equal(t, 100, models.PlanProgress(items))
}

func TestCreatePlan(t *testing.T) {
	f := newPlanFixture()

	resp := f.createPlan(t, "Explore options", "Visit open days")
	assert.Equal(t, models.PlanActive, resp.Status)
	assert.Equal(t, 0, resp.Progress)
	assert.Equal(t, f.tutor.ID, resp.CreatedBy)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, models.ItemPending, resp.Items[0].Status)
}

func TestCreatePlanWrongCenter(t *testing.T) {
	f := newPlanFixture()

	_, err := f.service.CreatePlan(context.Background(), f.otherTutor.ID, &dto.CreatePlanRequest{
		StudentID: f.student.ID,
		Title:     "Plan",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreatePlanGuardianDenied(t *testing.T) {
	f := newPlanFixture()

	_, err := f.service.CreatePlan(context.Background(), f.guardian.ID, &dto.CreatePlanRequest{
		StudentID: f.student.ID,
		Title:     "Plan",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSetItemStatusRecomputesProgress(t *testing.T) {
	f := newPlanFixture()
	plan := f.createPlan(t, "First", "Second", "Third")

	resp, err := f.service.SetItemStatus(context.Background(), f.tutor.ID, plan.Items[0].ID, &dto.SetItemStatusRequest{
		Status: models.ItemCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 33, resp.Progress)

	resp, err = f.service.SetItemStatus(context.Background(), f.tutor.ID, plan.Items[1].ID, &dto.SetItemStatusRequest{
		Status: models.ItemCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 67, resp.Progress)

	// Moving an item back out of completed lowers the percentage again.
	resp, err = f.service.SetItemStatus(context.Background(), f.tutor.ID, plan.Items[0].ID, &dto.SetItemStatusRequest{
		Status: models.ItemInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, 33, resp.Progress)
}

func TestSetItemStatusStudentOwnPlan(t *testing.T) {
	f := newPlanFixture()
	plan := f.createPlan(t, "Only item")

	resp, err := f.service.SetItemStatus(context.Background(), f.studentProfile.ID, plan.Items[0].ID, &dto.SetItemStatusRequest{
		Status: models.ItemCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Progress)
}

func TestSetItemStatusGuardianDenied(t *testing.T) {
	f := newPlanFixture()
	plan := f.createPlan(t, "Only item")

	_, err := f.service.SetItemStatus(context.Background(), f.guardian.ID, plan.Items[0].ID, &dto.SetItemStatusRequest{
		Status: models.ItemCompleted,
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestAddItemAndTask(t *testing.T) {
	f := newPlanFixture()
	plan := f.createPlan(t)

	item, err := f.service.AddItem(context.Background(), f.tutor.ID, plan.ID, &dto.AddPlanItemRequest{
		Title: "Prepare CV",
	})
	require.NoError(t, err)
	assert.Equal(t, plan.ID, item.PlanID)
	assert.Equal(t, models.ItemPending, item.Status)

	task, err := f.service.AddTask(context.Background(), f.tutor.ID, item.ID, &dto.AddPlanTaskRequest{
		Title:            "Read the CV writing guide",
		TaskType:         models.TaskReading,
		LinkedResourceID: ptr(int64(7)),
	})
	require.NoError(t, err)
	assert.Equal(t, item.ID, task.PlanItemID)
	assert.Equal(t, models.TaskPending, task.Status)
	require.NotNil(t, task.LinkedResourceID)
	assert.Equal(t, int64(7), *task.LinkedResourceID)
	assert.Nil(t, task.LinkedEventID)
}

func TestSetTaskStatusDoesNotChangeProgress(t *testing.T) {
	f := newPlanFixture()
	plan := f.createPlan(t, "Item with task")

	task, err := f.service.AddTask(context.Background(), f.tutor.ID, plan.Items[0].ID, &dto.AddPlanTaskRequest{
		Title:    "Fill in the interests questionnaire",
		TaskType: models.TaskQuestionnaire,
	})
	require.NoError(t, err)

	started, err := f.service.SetTaskStatus(context.Background(), f.studentProfile.ID, task.ID, &dto.SetTaskStatusRequest{
		Status: models.TaskInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, started.Status)
	assert.Nil(t, started.CompletedBy)

	done, err := f.service.SetTaskStatus(context.Background(), f.studentProfile.ID, task.ID, &dto.SetTaskStatusRequest{
		Status: models.TaskCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, done.Status)
	require.NotNil(t, done.CompletedBy)
	assert.Equal(t, f.studentProfile.ID, *done.CompletedBy)
	assert.NotNil(t, done.CompletedAt)

	// Task completion is tracked per task; the plan percentage only moves
	// with item statuses.
	detail, err := f.service.GetPlan(context.Background(), f.tutor.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.Progress)
}

func TestGetPlanVisibility(t *testing.T) {
	f := newPlanFixture()
	plan := f.createPlan(t, "Item")

	// The approved guardian can read the plan.
	resp, err := f.service.GetPlan(context.Background(), f.guardian.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, resp.ID)

	// A tutor from another center cannot.
	_, err = f.service.GetPlan(context.Background(), f.otherTutor.ID, plan.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestListPlansScopedToVisibleStudents(t *testing.T) {
	f := newPlanFixture()
	f.createPlan(t, "Item")

	filter := &dto.PlanFilterRequest{Page: 1, PageSize: 10}

	list, err := f.service.ListPlans(context.Background(), f.tutor.ID, filter)
	require.NoError(t, err)
	assert.Len(t, list.Plans, 1)

	// Nothing is visible from another center.
	list, err = f.service.ListPlans(context.Background(), f.otherTutor.ID, filter)
	require.NoError(t, err)
	assert.Empty(t, list.Plans)
}

func TestListPlansStatusFilter(t *testing.T) {
	f := newPlanFixture()
	f.createPlan(t, "Item")

	status := models.PlanArchived
	list, err := f.service.ListPlans(context.Background(), f.tutor.ID, &dto.PlanFilterRequest{
		Status:   &status,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, list.Plans)
}
