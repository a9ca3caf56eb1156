package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dmoran/orienta/internal/app/auth"
	"github.com/dmoran/orienta/internal/app/models"
	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/helpers"
)

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, actorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	DecideEvent(ctx context.Context, actorID, eventID int64, req *dto.DecideEventRequest) (*dto.EventResponse, error)
	PublishEvent(ctx context.Context, actorID, eventID int64) (*dto.EventResponse, error)
	CancelEvent(ctx context.Context, actorID, eventID int64) (*dto.EventResponse, error)
	GetEvent(ctx context.Context, eventID int64) (*dto.EventResponse, error)
	ListEvents(ctx context.Context, actorID int64, filter *dto.EventFilterRequest) (*dto.EventListResponse, error)
	Register(ctx context.Context, actorID, eventID int64) (*dto.EventRegistrationResponse, error)
	CancelRegistration(ctx context.Context, actorID, eventID int64) error
	JoinWaitlist(ctx context.Context, actorID, eventID int64) (*dto.EventRegistrationResponse, error)
	MarkAttendance(ctx context.Context, actorID, eventID int64, req *dto.MarkAttendanceRequest) error
	ListRegistrations(ctx context.Context, actorID, eventID int64) ([]dto.EventRegistrationResponse, error)
}

// EventStore is the data access surface for events and registrations
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	UpdateStatus(ctx context.Context, id int64, from []models.EventStatus, to models.EventStatus, rejectionReason *string) (bool, error)
	List(ctx context.Context, centerID *int64, filter *models.EventFilter, offset uint64, limit int) ([]*models.Event, int64, error)
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	Register(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error)
	JoinWaitlist(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error)
	CancelRegistration(ctx context.Context, eventID, studentID int64) (*models.EventRegistration, error)
	MarkAttendance(ctx context.Context, eventID, studentID int64, status models.RegistrationStatus) (bool, error)
	ListRegistrations(ctx context.Context, eventID int64) ([]*models.EventRegistration, error)
}

// CompanyStore is the data access surface for companies used by other services
type CompanyStore interface {
	GetByProfileID(ctx context.Context, profileID int64) (*models.Company, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventStore   EventStore
	profileStore ProfileStore
	studentStore StudentStore
	companyStore CompanyStore
	access       *auth.AccessService
	logger       zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventStore EventStore,
	profileStore ProfileStore,
	studentStore StudentStore,
	companyStore CompanyStore,
	access *auth.AccessService,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventStore:   eventStore,
		profileStore: profileStore,
		studentStore: studentStore,
		companyStore: companyStore,
		access:       access,
		logger:       logger,
	}
}

// CreateEvent creates an event. Tutors create drafts for their own center;
// companies need an approved company record and their events start in
// pending_approval awaiting a center decision.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, actorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		CreatedBy:    actorID,
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Location:     req.Location,
		Capacity:     req.Capacity,
		TargetGrades: req.TargetGrades,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
	}
	if event.TargetGrades == nil {
		event.TargetGrades = []string{}
	}

	switch actor.Role {
	case models.RoleTutor, models.RoleAdmin:
		if actor.CenterID == nil {
			return nil, apperrors.ErrPermissionDenied
		}
		event.CenterID = *actor.CenterID
		event.Status = models.EventDraft

	case models.RoleCompany:
		company, err := s.companyStore.GetByProfileID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if company.Status != models.CompanyApproved {
			return nil, apperrors.ErrCompanyNotApproved
		}
		if req.CenterID == nil {
			return nil, apperrors.NewBadRequestError("centerId is required for company events")
		}
		event.CenterID = *req.CenterID
		event.CompanyID = &company.ID
		event.Status = models.EventPending

	default:
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.eventStore.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("eventID", event.ID).
		Int64("centerID", event.CenterID).
		Str("status", string(event.Status)).
		Msg("Event created")

	resp := dto.FromEvent(event)
	return &resp, nil
}

// DecideEvent approves or rejects an event awaiting approval. Approval
// moves it to approved, not published; publishing is a separate step.
func (s *eventServiceImpl) DecideEvent(ctx context.Context, actorID, eventID int64, req *dto.DecideEventRequest) (*dto.EventResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireTutorAtCenter(actor, event.CenterID); err != nil {
		return nil, err
	}

	to := models.EventApproved
	var reason *string
	if !req.Approve {
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return nil, apperrors.NewBadRequestError("a rejection reason is required")
		}
		to = models.EventRejected
		reason = req.RejectionReason
	}

	ok, err := s.eventStore.UpdateStatus(ctx, eventID, []models.EventStatus{models.EventPending}, to, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("event is not awaiting approval")
	}

	return s.GetEvent(ctx, eventID)
}

// PublishEvent moves a draft or approved event to published
func (s *eventServiceImpl) PublishEvent(ctx context.Context, actorID, eventID int64) (*dto.EventResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireTutorAtCenter(actor, event.CenterID); err != nil {
		return nil, err
	}

	from := []models.EventStatus{models.EventDraft, models.EventApproved}
	ok, err := s.eventStore.UpdateStatus(ctx, eventID, from, models.EventPublished, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("only draft or approved events can be published")
	}

	return s.GetEvent(ctx, eventID)
}

// CancelEvent cancels an event that has not completed
func (s *eventServiceImpl) CancelEvent(ctx context.Context, actorID, eventID int64) (*dto.EventResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// The creating company may cancel its own event; otherwise center staff.
	if actor.Role == models.RoleCompany {
		if event.CreatedBy != actorID {
			return nil, apperrors.ErrPermissionDenied
		}
	} else if err := s.access.RequireTutorAtCenter(actor, event.CenterID); err != nil {
		return nil, err
	}

	from := []models.EventStatus{models.EventDraft, models.EventPending, models.EventApproved, models.EventPublished}
	ok, err := s.eventStore.UpdateStatus(ctx, eventID, from, models.EventCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("event can no longer be cancelled")
	}

	return s.GetEvent(ctx, eventID)
}

// GetEvent retrieves an event with its confirmed registration count
func (s *eventServiceImpl) GetEvent(ctx context.Context, eventID int64) (*dto.EventResponse, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.eventStore.CountConfirmed(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromEvent(event)
	resp.ConfirmedCount = confirmed
	return &resp, nil
}

// ListEvents retrieves events scoped by role: students and families see
// published events of their center, companies see their own submissions,
// staff see everything at their center.
func (s *eventServiceImpl) ListEvents(ctx context.Context, actorID int64, filter *dto.EventFilterRequest) (*dto.EventListResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	modelFilter := &models.EventFilter{
		Type:      filter.Type,
		Status:    filter.Status,
		CompanyID: filter.CompanyID,
		Upcoming:  filter.Upcoming,
	}

	var centerID *int64
	switch actor.Role {
	case models.RoleAdmin:
		centerID = actor.CenterID

	case models.RoleTutor:
		centerID = actor.CenterID

	case models.RoleStudent, models.RoleFamily:
		centerID = actor.CenterID
		published := models.EventPublished
		modelFilter.Status = &published

	case models.RoleCompany:
		modelFilter.CreatedBy = &actorID

	default:
		return nil, apperrors.ErrPermissionDenied
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	events, total, err := s.eventStore.List(ctx, centerID, modelFilter, offset, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.EventListResponse{
		Events:         make([]dto.EventResponse, 0, len(events)),
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
	for _, event := range events {
		resp.Events = append(resp.Events, dto.FromEvent(event))
	}
	return resp, nil
}

func (s *eventServiceImpl) resolveStudent(ctx context.Context, actorID int64) (*models.Student, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRole(actor, models.RoleStudent); err != nil {
		return nil, err
	}
	return s.studentStore.GetByProfileID(ctx, actorID)
}

// Register registers the acting student for a published event. The capacity
// check and the insert run in one transaction; a full event yields
// ErrEventFull and no row.
func (s *eventServiceImpl) Register(ctx context.Context, actorID, eventID int64) (*dto.EventRegistrationResponse, error) {
	student, err := s.resolveStudent(ctx, actorID)
	if err != nil {
		return nil, err
	}

	reg, err := s.eventStore.Register(ctx, eventID, student.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("eventID", eventID).
		Int64("studentID", student.ID).
		Msg("Event registration confirmed")

	resp := dto.FromEventRegistration(reg)
	return &resp, nil
}

// JoinWaitlist puts the acting student on the waitlist of a full event
func (s *eventServiceImpl) JoinWaitlist(ctx context.Context, actorID, eventID int64) (*dto.EventRegistrationResponse, error) {
	student, err := s.resolveStudent(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventPublished {
		return nil, apperrors.ErrEventNotOpen
	}

	confirmed, err := s.eventStore.CountConfirmed(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasCapacity(confirmed) {
		return nil, apperrors.NewBadRequestError("event still has open places")
	}

	reg, err := s.eventStore.JoinWaitlist(ctx, eventID, student.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromEventRegistration(reg)
	return &resp, nil
}

// CancelRegistration cancels the acting student's registration. Freeing a
// confirmed place promotes the head of the waitlist in the same transaction.
func (s *eventServiceImpl) CancelRegistration(ctx context.Context, actorID, eventID int64) error {
	student, err := s.resolveStudent(ctx, actorID)
	if err != nil {
		return err
	}

	promoted, err := s.eventStore.CancelRegistration(ctx, eventID, student.ID)
	if err != nil {
		return err
	}

	if promoted != nil {
		s.logger.Info().
			Int64("eventID", eventID).
			Int64("promotedStudentID", promoted.StudentID).
			Msg("Waitlist entry promoted after cancellation")
	}

	return nil
}

// MarkAttendance records attended/no_show for a confirmed registration
func (s *eventServiceImpl) MarkAttendance(ctx context.Context, actorID, eventID int64, req *dto.MarkAttendanceRequest) error {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.access.RequireTutorAtCenter(actor, event.CenterID); err != nil {
		return err
	}

	status := models.RegistrationNoShow
	if req.Attended {
		status = models.RegistrationAttended
	}

	ok, err := s.eventStore.MarkAttendance(ctx, eventID, req.StudentID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrRegistrationNotFound
	}

	return nil
}

// ListRegistrations retrieves the registration list of an event for staff
func (s *eventServiceImpl) ListRegistrations(ctx context.Context, actorID, eventID int64) ([]dto.EventRegistrationResponse, error) {
	actor, err := s.profileStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleCompany {
		if event.CreatedBy != actorID {
			return nil, apperrors.ErrPermissionDenied
		}
	} else if err := s.access.RequireTutorAtCenter(actor, event.CenterID); err != nil {
		return nil, err
	}

	regs, err := s.eventStore.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.EventRegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, dto.FromEventRegistration(reg))
	}
	return resp, nil
}
