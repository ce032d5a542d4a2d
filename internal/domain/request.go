package domain

import (
	"context"
	"time"
)

// RequestStatus is the state of a participation request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

// CanTransitionTo reports whether the status transition is legal. PENDING may
// move to any other status; CONFIRMED and REJECTED are terminal; CANCELED is
// reachable from PENDING only.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestPending && next != RequestPending
}

// Request is a user's participation request for an event.
// swagger:model Request
type Request struct {
	ID          int64         `json:"id"`
	EventID     int64         `json:"event"`
	RequesterID int64         `json:"requester"`
	Created     time.Time     `json:"-"`
	Status      RequestStatus `json:"status"`
}

// StatusUpdate is the organizer's batch decision over pending requests.
// Status must be RequestConfirmed or RequestRejected.
type StatusUpdate struct {
	RequestIDs []int64
	Status     RequestStatus
}

// StatusUpdateResult partitions a processed batch into confirmed and rejected
// requests.
type StatusUpdateResult struct {
	ConfirmedRequests []*Request `json:"confirmed_requests"`
	RejectedRequests  []*Request `json:"rejected_requests"`
}

// RequestRepository defines storage operations for participation requests.
type RequestRepository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Request, error)
	// GetActiveByRequesterAndEvent returns the requester's non-canceled
	// request for the event, or ErrNotFound.
	GetActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*Request, error)
	CountByEventAndStatus(ctx context.Context, eventID int64, status RequestStatus) (int64, error)
	Update(ctx context.Context, req *Request) error
	// UpdateAll persists a batch of status changes in a single transaction.
	UpdateAll(ctx context.Context, reqs []*Request) error
}

// AdmissionService owns the request state machine and the capacity-gated
// batch confirmation algorithm.
type AdmissionService interface {
	CreateRequest(ctx context.Context, requesterID, eventID int64) (*Request, error)
	UpdateStatus(ctx context.Context, initiatorID, eventID int64, update StatusUpdate) (*StatusUpdateResult, error)
	ListRequests(ctx context.Context, initiatorID, eventID int64) ([]*Request, error)
	ListOwnRequests(ctx context.Context, requesterID int64) ([]*Request, error)
	CancelRequest(ctx context.Context, requesterID, requestID int64) (*Request, error)
}
