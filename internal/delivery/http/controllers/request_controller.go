package controllers

import (
	"log/slog"
	"net/http"

	"cityevents/internal/delivery/http/helpers"
	"cityevents/internal/domain"
)

type RequestController struct {
	Logger  *slog.Logger
	Service domain.AdmissionService
}

func NewRequestController(logger *slog.Logger, svc domain.AdmissionService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRequest godoc
// @Summary Submit a participation request
// @Description Creates a request to join a published event. The request is auto-confirmed when the event has no moderation or no participant limit.
// @Tags requests
// @Produce json
// @Param userId path int true "Requester ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userId}/requests [post]
func (c *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	eventID, ok := queryID(w, r, "eventId")
	if !ok {
		return
	}
	req, err := c.Service.CreateRequest(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, requestToResponse(req))
}

// StatusUpdateRequest is the request body for
// PATCH /users/{userId}/events/{eventId}/requests.
type StatusUpdateRequest struct {
	RequestIDs []int64 `json:"request_ids"`
	Status     string  `json:"status"`
}

// Validate implements helpers.Validator.
func (r *StatusUpdateRequest) Validate() []string {
	switch domain.RequestStatus(r.Status) {
	case domain.RequestConfirmed, domain.RequestRejected:
		return nil
	}
	return []string{"status must be CONFIRMED or REJECTED"}
}

// StatusUpdateResultResponse partitions a processed batch.
// swagger:model StatusUpdateResultResponse
type StatusUpdateResultResponse struct {
	ConfirmedRequests []*RequestResponse `json:"confirmed_requests"`
	RejectedRequests  []*RequestResponse `json:"rejected_requests"`
}

// UpdateStatus godoc
// @Summary Decide pending participation requests
// @Description Confirms or rejects the listed requests under the event's participant limit. Overflow requests in a confirm batch are auto-rejected in caller order.
// @Tags requests
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param body body controllers.StatusUpdateRequest true "Batch decision"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userId}/events/{eventId}/requests [patch]
func (c *RequestController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	var req StatusUpdateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.UpdateStatus(r.Context(), userID, eventID, domain.StatusUpdate{
		RequestIDs: req.RequestIDs,
		Status:     domain.RequestStatus(req.Status),
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &StatusUpdateResultResponse{
		ConfirmedRequests: requestsToResponse(result.ConfirmedRequests),
		RejectedRequests:  requestsToResponse(result.RejectedRequests),
	})
}

// ListEventRequests godoc
// @Summary List participation requests for an event (organizer view)
// @Tags requests
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userId}/events/{eventId}/requests [get]
func (c *RequestController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	reqs, err := c.Service.ListRequests(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requestsToResponse(reqs))
}

// ListOwnRequests godoc
// @Summary List the caller's own participation requests
// @Tags requests
// @Produce json
// @Param userId path int true "Requester ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userId}/requests [get]
func (c *RequestController) ListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	reqs, err := c.Service.ListOwnRequests(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requestsToResponse(reqs))
}

// CancelRequest godoc
// @Summary Cancel the caller's own pending request
// @Tags requests
// @Produce json
// @Param userId path int true "Requester ID"
// @Param requestId path int true "Request ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/{userId}/requests/{requestId}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestId")
	if !ok {
		return
	}
	req, err := c.Service.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requestToResponse(req))
}

func (c *RequestController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
}
