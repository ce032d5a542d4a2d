package controllers

import (
	"net/http"
	"strconv"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

// EventResponse is the full event representation with boundary-formatted
// timestamps.
// swagger:model EventResponse
type EventResponse struct {
	ID                int64           `json:"id"`
	Annotation        string          `json:"annotation"`
	Category          int64           `json:"category"`
	ConfirmedRequests int64           `json:"confirmed_requests"`
	CreatedOn         string          `json:"created_on"`
	Description       string          `json:"description"`
	EventDate         string          `json:"event_date"`
	Initiator         int64           `json:"initiator"`
	Location          domain.Location `json:"location"`
	Paid              bool            `json:"paid"`
	ParticipantLimit  int64           `json:"participant_limit"`
	PublishedOn       string          `json:"published_on,omitempty"`
	RequestModeration bool            `json:"request_moderation"`
	State             string          `json:"state"`
	Title             string          `json:"title"`
	Views             int64           `json:"views"`
}

func eventToResponse(e *domain.Event) *EventResponse {
	resp := &EventResponse{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          e.CategoryID,
		ConfirmedRequests: e.ConfirmedRequests,
		CreatedOn:         domain.FormatDateTime(e.CreatedOn),
		Description:       e.Description,
		EventDate:         domain.FormatDateTime(e.EventDate),
		Initiator:         e.InitiatorID,
		Location:          e.Location,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             string(e.State),
		Title:             e.Title,
		Views:             e.Views,
	}
	if e.PublishedOn != nil {
		resp.PublishedOn = domain.FormatDateTime(*e.PublishedOn)
	}
	return resp
}

func eventsToResponse(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventToResponse(e))
	}
	return out
}

// RequestResponse is the participation request representation.
// swagger:model RequestResponse
type RequestResponse struct {
	ID        int64  `json:"id"`
	Event     int64  `json:"event"`
	Requester int64  `json:"requester"`
	Created   string `json:"created"`
	Status    string `json:"status"`
}

func requestToResponse(r *domain.Request) *RequestResponse {
	return &RequestResponse{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Created:   domain.FormatDateTime(r.Created),
		Status:    string(r.Status),
	}
}

func requestsToResponse(reqs []*domain.Request) []*RequestResponse {
	out := make([]*RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, requestToResponse(r))
	}
	return out
}

// pathID parses a numeric path segment; on failure it writes a 400 response
// and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID parses a required numeric query parameter; on failure it writes a
// 400 response and returns false.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
