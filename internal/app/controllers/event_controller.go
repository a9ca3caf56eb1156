package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/middleware"
)

// EventController handles orientation event operations
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent creates an event
// @Summary Create an event
// @Description Tutors and admins create draft events for their center. Approved companies create events in pending status for the target center.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Company not approved or role not allowed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid event data", err)))
		return
	}

	event, err := c.eventService.CreateEvent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: event, Timestamp: time.Now()})
}

// DecideEvent approves or rejects a pending event
// @Summary Decide a company event
// @Description A tutor of the target center approves (publishes) or rejects a company event awaiting approval
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.DecideEventRequest true "Decision data"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event decided"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a tutor of this center"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event not awaiting approval"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/decision [patch]
func (c *EventController) DecideEvent(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecideEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid decision data", err)))
		return
	}

	event, err := c.eventService.DecideEvent(ctx, id, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: event, Timestamp: time.Now()})
}

// PublishEvent publishes a draft event
// @Summary Publish an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event published"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/publish [post]
func (c *EventController) PublishEvent(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.PublishEvent(ctx, id, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: event, Timestamp: time.Now()})
}

// CancelEvent cancels an event
// @Summary Cancel an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event cancelled"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/cancel [post]
func (c *EventController) CancelEvent(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.CancelEvent(ctx, id, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: event, Timestamp: time.Now()})
}

// GetEvent retrieves an event with its confirmed registration count
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event detail"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: event, Timestamp: time.Now()})
}

// ListEvents lists events visible to the caller
// @Summary List events
// @Description Students and families see published events of their center. Staff additionally see drafts and pending events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by event type"
// @Param status query string false "Filter by event status (staff only)"
// @Param companyId query int false "Filter by company"
// @Param upcoming query bool false "Only events that have not started yet"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse} "Events"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	var filter dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid filter parameters", err)))
		return
	}

	events, err := c.eventService.ListEvents(ctx, id, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: events, Timestamp: time.Now()})
}

// Register registers the student for an event
// @Summary Register for an event
// @Description Registers the authenticated student. Fails with 409 when the event is full; use the waitlist endpoint in that case.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.EventRegistrationResponse} "Registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Event full or already registered"
// @Failure 422 {object} dto.ErrorResponse "Event not open for registration"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/registrations [post]
func (c *EventController) Register(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	registration, err := c.eventService.Register(ctx, id, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: registration, Timestamp: time.Now()})
}

// JoinWaitlist adds the student to the event waitlist
// @Summary Join an event waitlist
// @Description Adds the authenticated student to the waitlist of a full event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 201 {object} dto.APIResponse{data=dto.EventRegistrationResponse} "Waitlisted"
// @Failure 400 {object} dto.ErrorResponse "Event still has free places"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Failure 422 {object} dto.ErrorResponse "Event not open for registration"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/waitlist [post]
func (c *EventController) JoinWaitlist(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	registration, err := c.eventService.JoinWaitlist(ctx, id, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: registration, Timestamp: time.Now()})
}

// CancelRegistration cancels the student's registration
// @Summary Cancel an event registration
// @Description Cancels the authenticated student's registration. When a confirmed place frees up, the first waitlisted student is promoted.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Registration cancelled"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/registrations [delete]
func (c *EventController) CancelRegistration(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.eventService.CancelRegistration(ctx, id, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Registration cancelled"},
		Timestamp: time.Now(),
	})
}

// MarkAttendance marks a student attended or absent
// @Summary Mark event attendance
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.MarkAttendanceRequest true "Attendance data"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/attendance [post]
func (c *EventController) MarkAttendance(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.ValidationErrorDetail("Invalid attendance data", err)))
		return
	}

	if err := c.eventService.MarkAttendance(ctx, id, eventID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Attendance recorded"},
		Timestamp: time.Now(),
	})
}

// ListRegistrations lists the registrations of an event
// @Summary List event registrations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventRegistrationResponse} "Registrations"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 403 {object} dto.ErrorResponse "Not allowed"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/registrations [get]
func (c *EventController) ListRegistrations(ctx *gin.Context) {
	id, ok := actorID(ctx)
	if !ok {
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	registrations, err := c.eventService.ListRegistrations(ctx, id, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: registrations, Timestamp: time.Now()})
}
