package domain

import (
	"context"
	"time"
)

// EventState is the lifecycle state of an event.
type EventState string

const (
	StatePending   EventState = "PENDING"
	StatePublished EventState = "PUBLISHED"
	StateCanceled  EventState = "CANCELED"
)

// StateAction is a caller-supplied directive driving an event state
// transition.
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionRejectEvent  StateAction = "REJECT_EVENT"
	ActionPublishEvent StateAction = "PUBLISH_EVENT"
)

// Resolve maps a lifecycle action to the resulting event state. Unknown
// actions return ErrInvalidInput.
func (a StateAction) Resolve() (EventState, error) {
	switch a {
	case ActionSendToReview:
		return StatePending, nil
	case ActionCancelReview, ActionRejectEvent:
		return StateCanceled, nil
	case ActionPublishEvent:
		return StatePublished, nil
	default:
		return "", ErrInvalidInput
	}
}

// Location is a latitude/longitude pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event represents a public event with capacity-limited participation.
// ConfirmedRequests and Views are projections computed on read by the
// enrichment engine, never persisted as source of truth.
// swagger:model Event
type Event struct {
	ID                int64      `json:"id"`
	Annotation        string     `json:"annotation"`
	CategoryID        int64      `json:"category"`
	Description       string     `json:"description"`
	EventDate         time.Time  `json:"-"`
	InitiatorID       int64      `json:"initiator"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int64      `json:"participant_limit"`
	RequestModeration bool       `json:"request_moderation"`
	State             EventState `json:"state"`
	Title             string     `json:"title"`
	CreatedOn         time.Time  `json:"-"`
	PublishedOn       *time.Time `json:"-"`

	ConfirmedRequests int64 `json:"confirmed_requests"`
	Views             int64 `json:"views"`
}

// MinAdvance is the minimum interval between "now" and an event's start when
// the event is created or rescheduled.
const MinAdvance = 2 * time.Hour

// NewEvent is the organizer's draft for event creation.
type NewEvent struct {
	Annotation        string
	CategoryID        int64
	Description       string
	EventDate         time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int64
	RequestModeration bool
	Title             string
}

// EventPatch carries the optional fields of an event update; nil fields are
// left untouched.
type EventPatch struct {
	Annotation        *string
	CategoryID        *int64
	Description       *string
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int64
	RequestModeration *bool
	StateAction       *StateAction
	Title             *string
}

// HasFieldEdits reports whether the patch changes any stored field beyond a
// lifecycle state action.
func (p EventPatch) HasFieldEdits() bool {
	return p.Annotation != nil ||
		p.CategoryID != nil ||
		p.Description != nil ||
		p.EventDate != nil ||
		p.Location != nil ||
		p.Paid != nil ||
		p.ParticipantLimit != nil ||
		p.RequestModeration != nil ||
		p.Title != nil
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, event *Event) error
	ListByInitiator(ctx context.Context, initiatorID int64, params PaginationParams) ([]*Event, error)
}

// VisitorContext identifies the caller whose read should be recorded as a
// view hit.
type VisitorContext struct {
	URI string
	IP  string
}

// EventService owns the event lifecycle state machine.
type EventService interface {
	Create(ctx context.Context, initiatorID int64, draft NewEvent) (*Event, error)
	Update(ctx context.Context, initiatorID, eventID int64, patch EventPatch, visitor VisitorContext) (*Event, error)
	UpdateByAdmin(ctx context.Context, eventID int64, patch EventPatch, visitor VisitorContext) (*Event, error)
	Get(ctx context.Context, initiatorID, eventID int64, visitor VisitorContext) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, params PaginationParams, visitor VisitorContext) ([]*Event, error)
}
