package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/delivery/http/middleware"
	"cityevents/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// LocationDTO mirrors domain.Location in request bodies.
type LocationDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewEventRequest is the request body for POST /users/{userId}/events.
type NewEventRequest struct {
	Annotation        string      `json:"annotation"`
	Category          int64       `json:"category"`
	Description       string      `json:"description"`
	EventDate         string      `json:"event_date"`
	Location          LocationDTO `json:"location"`
	Paid              bool        `json:"paid"`
	ParticipantLimit  int64       `json:"participant_limit"`
	RequestModeration *bool       `json:"request_moderation"`
	Title             string      `json:"title"`

	parsedDate time.Time
}

// Validate implements helpers.Validator.
func (r *NewEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Annotation) == "" {
		errs = append(errs, "annotation is required")
	}
	if len(r.Annotation) > 255 {
		errs = append(errs, "annotation must not exceed 255 characters")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if len(r.Description) > 500 {
		errs = append(errs, "description must not exceed 500 characters")
	}
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if len(r.Title) > 100 {
		errs = append(errs, "title must not exceed 100 characters")
	}
	if r.Category <= 0 {
		errs = append(errs, "category is required")
	}
	if r.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	date, err := domain.ParseDateTime(r.EventDate)
	if err != nil {
		errs = append(errs, "event_date must match "+domain.DateTimeLayout)
	} else {
		r.parsedDate = date
	}
	return errs
}

func (r *NewEventRequest) toDraft() domain.NewEvent {
	moderation := true
	if r.RequestModeration != nil {
		moderation = *r.RequestModeration
	}
	return domain.NewEvent{
		Annotation:        r.Annotation,
		CategoryID:        r.Category,
		Description:       r.Description,
		EventDate:         r.parsedDate,
		Location:          domain.Location{Lat: r.Location.Lat, Lon: r.Location.Lon},
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: moderation,
		Title:             r.Title,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event in state PENDING. The event date must be at least two hours in the future.
// @Tags events
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param body body controllers.NewEventRequest true "Event draft"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userId}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	var req NewEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), userID, req.toDraft())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, eventToResponse(event))
}

// UpdateEventRequest is the request body for PATCH /users/{userId}/events/{eventId}
// and PATCH /admin/events/{eventId}. All fields are optional.
type UpdateEventRequest struct {
	Annotation        *string      `json:"annotation"`
	Category          *int64       `json:"category"`
	Description       *string      `json:"description"`
	EventDate         *string      `json:"event_date"`
	Location          *LocationDTO `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int64       `json:"participant_limit"`
	RequestModeration *bool        `json:"request_moderation"`
	StateAction       *string      `json:"state_action"`
	Title             *string      `json:"title"`

	parsedDate *time.Time
}

// Validate implements helpers.Validator.
func (r *UpdateEventRequest) Validate() []string {
	var errs []string
	if r.Annotation != nil && len(*r.Annotation) > 255 {
		errs = append(errs, "annotation must not exceed 255 characters")
	}
	if r.Description != nil && len(*r.Description) > 500 {
		errs = append(errs, "description must not exceed 500 characters")
	}
	if r.Title != nil && len(*r.Title) > 100 {
		errs = append(errs, "title must not exceed 100 characters")
	}
	if r.ParticipantLimit != nil && *r.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	if r.EventDate != nil {
		date, err := domain.ParseDateTime(*r.EventDate)
		if err != nil {
			errs = append(errs, "event_date must match "+domain.DateTimeLayout)
		} else {
			r.parsedDate = &date
		}
	}
	return errs
}

func (r *UpdateEventRequest) toPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Annotation:        r.Annotation,
		CategoryID:        r.Category,
		Description:       r.Description,
		EventDate:         r.parsedDate,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		Title:             r.Title,
	}
	if r.Location != nil {
		patch.Location = &domain.Location{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	if r.StateAction != nil {
		action := domain.StateAction(*r.StateAction)
		patch.StateAction = &action
	}
	return patch
}

// UpdateEvent godoc
// @Summary Update an event owned by the caller
// @Description Applies the supplied fields to a PENDING or CANCELED event. A published event is immutable.
// @Tags events
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userId}/events/{eventId} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Update(r.Context(), userID, eventID, req.toPatch(), visitorFrom(r))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, eventToResponse(event))
}

// UpdateEventByAdmin godoc
// @Summary Moderate an event
// @Description Administrative update: publish a pending event or reject an unpublished one, with optional field edits.
// @Tags admin
// @Accept json
// @Produce json
// @Param eventId path int true "Event ID"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /admin/events/{eventId} [patch]
func (c *EventController) UpdateEventByAdmin(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateByAdmin(r.Context(), eventID, req.toPatch(), visitorFrom(r))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, eventToResponse(event))
}

// GetEvent godoc
// @Summary Get one event owned by the caller
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userId}/events/{eventId} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	event, err := c.Service.Get(r.Context(), userID, eventID, visitorFrom(r))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, eventToResponse(event))
}

// ListEvents godoc
// @Summary List events owned by the caller
// @Tags events
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param from query int false "Offset (default 0)"
// @Param size query int false "Page size (default 10)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userId}/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	params, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid pagination parameters")
		return
	}
	events, err := c.Service.ListByInitiator(r.Context(), userID, params, visitorFrom(r))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, eventsToResponse(events))
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}

// visitorFrom captures the caller identity used for view accounting.
func visitorFrom(r *http.Request) domain.VisitorContext {
	return domain.VisitorContext{
		URI: r.URL.Path,
		IP:  middleware.CallerIP(r),
	}
}
