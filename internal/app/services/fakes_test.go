package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/auth"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/repositories"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
)

// In-memory stores mirroring the repository error semantics, shared by the
// service tests in this package.

func ptr[T any](v T) *T { return &v }

var nopLogger = zerolog.Nop()

// --- profiles ---

type fakeProfileStore struct {
	profiles map[int64]*models.Profile
}

func newFakeProfileStore(profiles ...*models.Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[int64]*models.Profile)}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *fakeProfileStore) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return p, nil
}

func (s *fakeProfileStore) GetByEmailAndRole(_ context.Context, email string, role models.RoleType) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.Email == email && p.Role == role {
			return p, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

// --- students ---

type fakeStudentStore struct {
	students map[int64]*models.Student
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	s := &fakeStudentStore{students: make(map[int64]*models.Student)}
	for _, st := range students {
		s.students[st.ID] = st
	}
	return s
}

func (s *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	st, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return st, nil
}

func (s *fakeStudentStore) GetByProfileID(_ context.Context, profileID int64) (*models.Student, error) {
	for _, st := range s.students {
		if st.ProfileID == profileID {
			return st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (s *fakeStudentStore) ListIDsByCenter(_ context.Context, centerID int64) ([]int64, error) {
	var ids []int64
	for _, st := range s.students {
		if st.CenterID == centerID {
			ids = append(ids, st.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- guardian links ---

type fakeLinkStore struct {
	students *fakeStudentStore
	links    map[int64]*models.GuardianLink
	nextID   int64
}

func newFakeLinkStore(students *fakeStudentStore, links ...*models.GuardianLink) *fakeLinkStore {
	s := &fakeLinkStore{students: students, links: make(map[int64]*models.GuardianLink)}
	for _, l := range links {
		s.links[l.ID] = l
		if l.ID > s.nextID {
			s.nextID = l.ID
		}
	}
	return s
}

func (s *fakeLinkStore) Create(_ context.Context, link *models.GuardianLink) error {
	for _, l := range s.links {
		if l.GuardianID == link.GuardianID && l.StudentID == link.StudentID && l.Status != models.LinkRejected {
			return apperrors.ErrDuplicateRequest
		}
	}
	s.nextID++
	link.ID = s.nextID
	link.CreatedAt = time.Now()
	s.links[link.ID] = link
	return nil
}

func (s *fakeLinkStore) GetByID(_ context.Context, id int64) (*models.GuardianLink, error) {
	l, ok := s.links[id]
	if !ok {
		return nil, apperrors.ErrLinkNotFound
	}
	return l, nil
}

func (s *fakeLinkStore) FindActive(_ context.Context, guardianID, studentID int64) (*models.GuardianLink, error) {
	for _, l := range s.links {
		if l.GuardianID == guardianID && l.StudentID == studentID && l.Status != models.LinkRejected {
			return l, nil
		}
	}
	return nil, nil
}

func (s *fakeLinkStore) Decide(_ context.Context, id int64, status models.GuardianLinkStatus, deciderID int64, rejectionReason *string) (bool, error) {
	l, ok := s.links[id]
	if !ok || l.Status != models.LinkPending {
		return false, nil
	}
	now := time.Now()
	l.Status = status
	l.DecidedBy = &deciderID
	l.DecidedAt = &now
	l.RejectionReason = rejectionReason
	return true, nil
}

func (s *fakeLinkStore) ListPendingByCenter(ctx context.Context, centerID int64) ([]*models.GuardianLink, error) {
	var out []*models.GuardianLink
	for _, l := range s.links {
		if l.Status != models.LinkPending {
			continue
		}
		st, err := s.students.GetByID(ctx, l.StudentID)
		if err != nil {
			return nil, err
		}
		if st.CenterID == centerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeLinkStore) ListByGuardian(_ context.Context, guardianID int64) ([]*models.GuardianLink, error) {
	var out []*models.GuardianLink
	for _, l := range s.links {
		if l.GuardianID == guardianID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeLinkStore) ListChildren(ctx context.Context, guardianID int64) ([]*models.Student, error) {
	var out []*models.Student
	for _, l := range s.links {
		if l.GuardianID == guardianID && l.Status == models.LinkApproved {
			st, err := s.students.GetByID(ctx, l.StudentID)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeLinkStore) ListApprovedStudentIDs(_ context.Context, guardianID int64) ([]int64, error) {
	var ids []int64
	for _, l := range s.links {
		if l.GuardianID == guardianID && l.Status == models.LinkApproved {
			ids = append(ids, l.StudentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- plans ---

type fakePlanStore struct {
	plans  map[int64]*models.Plan
	items  map[int64]*models.PlanItem
	tasks  map[int64]*models.PlanTask
	nextID int64
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{
		plans: make(map[int64]*models.Plan),
		items: make(map[int64]*models.PlanItem),
		tasks: make(map[int64]*models.PlanTask),
	}
}

func (s *fakePlanStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakePlanStore) CreateWithItems(_ context.Context, plan *models.Plan, items []models.PlanItem) error {
	plan.ID = s.id()
	plan.CreatedAt = time.Now()
	s.plans[plan.ID] = plan
	for i := range items {
		item := items[i]
		item.ID = s.id()
		item.PlanID = plan.ID
		item.SortOrder = i
		s.items[item.ID] = &item
		plan.Items = append(plan.Items, item)
	}
	return nil
}

func (s *fakePlanStore) GetByID(_ context.Context, id int64) (*models.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, apperrors.ErrPlanNotFound
	}
	return p, nil
}

func (s *fakePlanStore) planItems(planID int64) []models.PlanItem {
	var out []models.PlanItem
	for _, item := range s.items {
		if item.PlanID == planID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *fakePlanStore) GetDetail(ctx context.Context, id int64) (*models.Plan, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := *p
	detail.Items = s.planItems(id)
	return &detail, nil
}

func (s *fakePlanStore) GetItem(_ context.Context, itemID int64) (*models.PlanItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, apperrors.ErrPlanItemNotFound
	}
	return item, nil
}

func (s *fakePlanStore) GetTask(_ context.Context, taskID int64) (*models.PlanTask, error) {
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.ErrPlanTaskNotFound
	}
	return task, nil
}

func (s *fakePlanStore) SetItemStatus(ctx context.Context, itemID int64, status models.PlanItemStatus) (*models.Plan, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, apperrors.ErrPlanItemNotFound
	}
	item.Status = status
	plan := s.plans[item.PlanID]
	plan.Progress = models.PlanProgress(s.planItems(plan.ID))
	return s.GetDetail(ctx, plan.ID)
}

func (s *fakePlanStore) SetTaskStatus(_ context.Context, taskID int64, status models.PlanTaskStatus, completedBy int64, at time.Time) (*models.PlanTask, error) {
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.ErrPlanTaskNotFound
	}
	task.Status = status
	if status == models.TaskCompleted {
		task.CompletedBy = &completedBy
		task.CompletedAt = &at
	} else {
		task.CompletedBy = nil
		task.CompletedAt = nil
	}
	return task, nil
}

func (s *fakePlanStore) AddItem(_ context.Context, item *models.PlanItem) error {
	item.ID = s.id()
	item.SortOrder = len(s.planItems(item.PlanID))
	s.items[item.ID] = item
	return nil
}

func (s *fakePlanStore) AddTask(_ context.Context, task *models.PlanTask) error {
	task.ID = s.id()
	s.tasks[task.ID] = task
	return nil
}

func (s *fakePlanStore) List(_ context.Context, studentIDs []int64, status *models.PlanStatus, offset uint64, limit int) ([]*models.Plan, int64, error) {
	allowed := make(map[int64]bool)
	for _, id := range studentIDs {
		allowed[id] = true
	}

	var matched []*models.Plan
	for _, p := range s.plans {
		if studentIDs != nil && !allowed[p.StudentID] {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// --- events ---

type fakeEventStore struct {
	events map[int64]*models.Event
	regs   []*models.EventRegistration
	nextID int64
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	s := &fakeEventStore{events: make(map[int64]*models.Event)}
	for _, e := range events {
		s.events[e.ID] = e
		if e.ID > s.nextID {
			s.nextID = e.ID
		}
	}
	return s
}

func (s *fakeEventStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	event.ID = s.id()
	event.CreatedAt = time.Now()
	s.events[event.ID] = event
	return nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return e, nil
}

func (s *fakeEventStore) UpdateStatus(_ context.Context, id int64, from []models.EventStatus, to models.EventStatus, rejectionReason *string) (bool, error) {
	e, ok := s.events[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if e.Status == f {
			e.Status = to
			e.RejectionReason = rejectionReason
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeEventStore) List(_ context.Context, centerID *int64, filter *models.EventFilter, offset uint64, limit int) ([]*models.Event, int64, error) {
	var matched []*models.Event
	for _, e := range s.events {
		if centerID != nil && e.CenterID != *centerID {
			continue
		}
		if filter.Type != nil && e.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.CompanyID != nil && (e.CompanyID == nil || *e.CompanyID != *filter.CompanyID) {
			continue
		}
		if filter.CreatedBy != nil && e.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Upcoming && e.StartsAt.Before(time.Now()) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *fakeEventStore) activeRegistration(eventID, studentID int64) *models.EventRegistration {
	for _, r := range s.regs {
		if r.EventID == eventID && r.StudentID == studentID && r.Status != models.RegistrationCancelled {
			return r
		}
	}
	return nil
}

func (s *fakeEventStore) CountConfirmed(_ context.Context, eventID int64) (int, error) {
	count := 0
	for _, r := range s.regs {
		if r.EventID == eventID && r.Status == models.RegistrationConfirmed {
			count++
		}
	}
	return count, nil
}

func (s *fakeEventStore) Register(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	e, ok := s.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if e.Status != models.EventPublished {
		return nil, apperrors.ErrEventNotOpen
	}
	if s.activeRegistration(eventID, studentID) != nil {
		return nil, apperrors.ErrAlreadyRegistered
	}
	confirmed, _ := s.CountConfirmed(ctx, eventID)
	if !e.HasCapacity(confirmed) {
		return nil, apperrors.ErrEventFull
	}
	reg := &models.EventRegistration{
		ID:           s.id(),
		EventID:      eventID,
		StudentID:    studentID,
		Status:       models.RegistrationConfirmed,
		RegisteredAt: time.Now(),
	}
	s.regs = append(s.regs, reg)
	return reg, nil
}

func (s *fakeEventStore) JoinWaitlist(_ context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	if s.activeRegistration(eventID, studentID) != nil {
		return nil, apperrors.ErrAlreadyRegistered
	}
	position := 1
	for _, r := range s.regs {
		if r.EventID == eventID && r.Status == models.RegistrationWaitlisted && r.WaitlistPosition != nil && *r.WaitlistPosition >= position {
			position = *r.WaitlistPosition + 1
		}
	}
	reg := &models.EventRegistration{
		ID:               s.id(),
		EventID:          eventID,
		StudentID:        studentID,
		Status:           models.RegistrationWaitlisted,
		WaitlistPosition: &position,
		RegisteredAt:     time.Now(),
	}
	s.regs = append(s.regs, reg)
	return reg, nil
}

func (s *fakeEventStore) CancelRegistration(_ context.Context, eventID, studentID int64) (*models.EventRegistration, error) {
	reg := s.activeRegistration(eventID, studentID)
	if reg == nil {
		return nil, apperrors.ErrRegistrationNotFound
	}
	wasConfirmed := reg.Status == models.RegistrationConfirmed
	reg.Status = models.RegistrationCancelled
	reg.WaitlistPosition = nil
	if !wasConfirmed {
		return nil, nil
	}

	var head *models.EventRegistration
	for _, r := range s.regs {
		if r.EventID != eventID || r.Status != models.RegistrationWaitlisted || r.WaitlistPosition == nil {
			continue
		}
		if head == nil || *r.WaitlistPosition < *head.WaitlistPosition {
			head = r
		}
	}
	if head == nil {
		return nil, nil
	}
	head.Status = models.RegistrationConfirmed
	head.WaitlistPosition = nil
	return head, nil
}

func (s *fakeEventStore) MarkAttendance(_ context.Context, eventID, studentID int64, status models.RegistrationStatus) (bool, error) {
	reg := s.activeRegistration(eventID, studentID)
	if reg == nil || reg.Status == models.RegistrationWaitlisted {
		return false, nil
	}
	reg.Status = status
	return true, nil
}

func (s *fakeEventStore) ListRegistrations(_ context.Context, eventID int64) ([]*models.EventRegistration, error) {
	var out []*models.EventRegistration
	for _, r := range s.regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- resources ---

type fakeResourceStore struct {
	resources map[int64]*models.Resource
	nextID    int64
}

func newFakeResourceStore(resources ...*models.Resource) *fakeResourceStore {
	s := &fakeResourceStore{resources: make(map[int64]*models.Resource)}
	for _, r := range resources {
		s.resources[r.ID] = r
		if r.ID > s.nextID {
			s.nextID = r.ID
		}
	}
	return s
}

func (s *fakeResourceStore) Create(_ context.Context, resource *models.Resource) error {
	s.nextID++
	resource.ID = s.nextID
	resource.CreatedAt = time.Now()
	s.resources[resource.ID] = resource
	return nil
}

func (s *fakeResourceStore) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	r, ok := s.resources[id]
	if !ok {
		return nil, apperrors.ErrContentNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeResourceStore) Update(_ context.Context, resource *models.Resource) error {
	if _, ok := s.resources[resource.ID]; !ok {
		return apperrors.ErrContentNotFound
	}
	s.resources[resource.ID] = resource
	return nil
}

func (s *fakeResourceStore) UpdateStatus(_ context.Context, id int64, from []models.ResourceStatus, to models.ResourceStatus, rejectionReason *string) (bool, error) {
	r, ok := s.resources[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if r.Status == f {
			r.Status = to
			r.RejectionReason = rejectionReason
			if to == models.ResourcePublished && r.PublishedAt == nil {
				now := time.Now()
				r.PublishedAt = &now
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeResourceStore) IncrementViewCount(_ context.Context, id int64) error {
	r, ok := s.resources[id]
	if !ok {
		return apperrors.ErrContentNotFound
	}
	r.ViewCount++
	return nil
}

func (s *fakeResourceStore) List(_ context.Context, centerID *int64, audiences []models.ResourceAudience, includeUnpublished bool, filter *models.ResourceFilter, offset uint64, limit int) ([]*models.Resource, int64, error) {
	allowed := make(map[models.ResourceAudience]bool)
	for _, a := range audiences {
		allowed[a] = true
	}

	var matched []*models.Resource
	for _, r := range s.resources {
		if centerID != nil && (r.CenterID == nil || *r.CenterID != *centerID) {
			continue
		}
		if !includeUnpublished && r.Status != models.ResourcePublished {
			continue
		}
		if audiences != nil && !allowed[r.Audience] {
			continue
		}
		if filter.Type != nil && r.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.CreatedBy != nil && r.CreatedBy != *filter.CreatedBy {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// --- companies ---

type fakeCompanyStore struct {
	companies map[int64]*models.Company
}

func newFakeCompanyStore(companies ...*models.Company) *fakeCompanyStore {
	s := &fakeCompanyStore{companies: make(map[int64]*models.Company)}
	for _, c := range companies {
		s.companies[c.ProfileID] = c
	}
	return s
}

func (s *fakeCompanyStore) GetByProfileID(_ context.Context, profileID int64) (*models.Company, error) {
	c, ok := s.companies[profileID]
	if !ok {
		return nil, apperrors.ErrCompanyNotFound
	}
	return c, nil
}

// --- invitations ---

type fakeInvitationStore struct {
	invitations map[int64]*models.Invitation
	collisions  int
	nextID      int64
}

func newFakeInvitationStore(invitations ...*models.Invitation) *fakeInvitationStore {
	s := &fakeInvitationStore{invitations: make(map[int64]*models.Invitation)}
	for _, inv := range invitations {
		s.invitations[inv.ID] = inv
		if inv.ID > s.nextID {
			s.nextID = inv.ID
		}
	}
	return s
}

func (s *fakeInvitationStore) Create(_ context.Context, inv *models.Invitation) error {
	if s.collisions > 0 {
		s.collisions--
		return repositories.ErrCodeCollision
	}
	for _, existing := range s.invitations {
		if existing.Code == inv.Code {
			return repositories.ErrCodeCollision
		}
	}
	s.nextID++
	inv.ID = s.nextID
	inv.CreatedAt = time.Now()
	s.invitations[inv.ID] = inv
	return nil
}

func (s *fakeInvitationStore) GetByCode(_ context.Context, code string) (*models.Invitation, error) {
	for _, inv := range s.invitations {
		if inv.Code == code {
			return inv, nil
		}
	}
	return nil, apperrors.ErrInvitationNotFound
}

func (s *fakeInvitationStore) GetByID(_ context.Context, id int64) (*models.Invitation, error) {
	inv, ok := s.invitations[id]
	if !ok {
		return nil, apperrors.ErrInvitationNotFound
	}
	return inv, nil
}

func (s *fakeInvitationStore) Revoke(_ context.Context, id int64) (bool, error) {
	inv, ok := s.invitations[id]
	if !ok || inv.UsedBy != nil || inv.IsRevoked {
		return false, nil
	}
	inv.IsRevoked = true
	return true, nil
}

func (s *fakeInvitationStore) ListByCenter(_ context.Context, centerID int64, offset uint64, limit int) ([]*models.Invitation, int64, error) {
	var matched []*models.Invitation
	for _, inv := range s.invitations {
		if inv.CenterID == centerID {
			matched = append(matched, inv)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// --- shared fixtures ---

func newTestAccess(students *fakeStudentStore, links *fakeLinkStore) *auth.AccessService {
	return auth.NewAccessService(students, links)
}

func testProfile(id int64, role models.RoleType, centerID *int64) *models.Profile {
	return &models.Profile{
		ID:        id,
		Email:     fmt.Sprintf("profile%d@example.com", id),
		Role:      role,
		CenterID:  centerID,
		FirstName: "Test",
		LastName:  "Profile",
		IsActive:  true,
	}
}

func testStudent(id, profileID, centerID int64) *models.Student {
	return &models.Student{ID: id, ProfileID: profileID, CenterID: centerID}
}
