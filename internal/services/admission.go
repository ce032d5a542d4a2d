package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cityevents/internal/domain"
)

type admissionService struct {
	eventRepo      domain.EventRepository
	requestRepo    domain.RequestRepository
	userRepo       domain.UserRepository
	enrichment     domain.EnrichmentService
	emailService   domain.EmailService
	eventLocks     *keyedMutex
	contextTimeout time.Duration
	logger         *slog.Logger
}

// NewAdmissionService creates the service that owns the participation-request
// state machine and the capacity-gated batch confirmation algorithm.
// emailService may be nil; decision notifications are then skipped.
func NewAdmissionService(
	eventRepo domain.EventRepository,
	requestRepo domain.RequestRepository,
	userRepo domain.UserRepository,
	enrichment domain.EnrichmentService,
	emailService domain.EmailService,
	timeout time.Duration,
	logger *slog.Logger,
) domain.AdmissionService {
	return &admissionService{
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		enrichment:     enrichment,
		emailService:   emailService,
		eventLocks:     newKeyedMutex(),
		contextTimeout: timeout,
		logger:         logger,
	}
}

func (s *admissionService) CreateRequest(ctx context.Context, requesterID, eventID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// The capacity check below races against concurrent joins on the same
	// event, so creation shares the event's exclusive section with the batch
	// update.
	unlock := s.eventLocks.Lock(eventID)
	defer unlock()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.State != domain.StatePublished {
		return nil, fmt.Errorf("%w: event %d is not published", domain.ErrConflict, eventID)
	}
	if event.InitiatorID == requesterID {
		return nil, fmt.Errorf("%w: initiator cannot join own event", domain.ErrConflict)
	}
	if _, err := s.requestRepo.GetActiveByRequesterAndEvent(ctx, requesterID, eventID); err == nil {
		return nil, fmt.Errorf("%w: request already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if event.ParticipantLimit > 0 {
		confirmed, err := s.enrichment.ConfirmedCount(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed >= event.ParticipantLimit {
			return nil, fmt.Errorf("%w: participant limit reached for event %d", domain.ErrConflict, eventID)
		}
	}

	status := domain.RequestPending
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		status = domain.RequestConfirmed
	}
	req := &domain.Request{
		EventID:     eventID,
		RequesterID: requesterID,
		Created:     time.Now(),
		Status:      status,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// UpdateStatus runs the batch confirmation algorithm. The whole
// read-recompute-decide-write sequence executes inside the event's exclusive
// section, and the batch is all-or-nothing: a status conflict on any element
// leaves every request and the event counter untouched.
func (s *admissionService) UpdateStatus(ctx context.Context, initiatorID, eventID int64, update domain.StatusUpdate) (*domain.StatusUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if update.Status != domain.RequestConfirmed && update.Status != domain.RequestRejected {
		return nil, fmt.Errorf("%w: unsupported target status %q", domain.ErrInvalidInput, update.Status)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrForbidden
	}

	unlock := s.eventLocks.Lock(eventID)
	defer unlock()

	confirmed, err := s.enrichment.ConfirmedCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	event.ConfirmedRequests = confirmed

	// No moderation gate for this event: every request was auto-confirmed at
	// creation time, so there is nothing to decide.
	if event.ParticipantLimit == 0 || !event.RequestModeration {
		return &domain.StatusUpdateResult{
			ConfirmedRequests: []*domain.Request{},
			RejectedRequests:  []*domain.Request{},
		}, nil
	}

	if confirmed >= event.ParticipantLimit {
		return nil, fmt.Errorf("%w: participant limit reached for event %d", domain.ErrConflict, eventID)
	}

	// Ids that resolve to no request are dropped from the batch.
	requests, err := s.requestRepo.ListByIDs(ctx, update.RequestIDs)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	var result *domain.StatusUpdateResult
	if update.Status == domain.RequestRejected {
		result, err = s.rejectAll(requests)
	} else {
		result, err = s.confirmUpTo(event, requests)
	}
	if err != nil {
		return nil, err
	}

	mutated := make([]*domain.Request, 0, len(result.ConfirmedRequests)+len(result.RejectedRequests))
	mutated = append(mutated, result.ConfirmedRequests...)
	mutated = append(mutated, result.RejectedRequests...)
	if err := s.requestRepo.UpdateAll(ctx, mutated); err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	s.notifyDecisions(ctx, event, result)
	return result, nil
}

// rejectAll moves every request in the batch to REJECTED. A non-PENDING
// element fails the whole call.
func (s *admissionService) rejectAll(requests []*domain.Request) (*domain.StatusUpdateResult, error) {
	rejected := make([]*domain.Request, 0, len(requests))
	for _, req := range requests {
		if !req.Status.CanTransitionTo(domain.RequestRejected) {
			return nil, fmt.Errorf("%w: request %d has status %s", domain.ErrConflict, req.ID, req.Status)
		}
		req.Status = domain.RequestRejected
		rejected = append(rejected, req)
	}
	return &domain.StatusUpdateResult{
		ConfirmedRequests: []*domain.Request{},
		RejectedRequests:  rejected,
	}, nil
}

// confirmUpTo confirms requests in caller order while seats remain and
// auto-rejects the overflow. The running count continues from the live
// confirmed count already set on the event snapshot.
func (s *admissionService) confirmUpTo(event *domain.Event, requests []*domain.Request) (*domain.StatusUpdateResult, error) {
	confirmed := make([]*domain.Request, 0, len(requests))
	rejected := make([]*domain.Request, 0)
	for _, req := range requests {
		if !req.Status.CanTransitionTo(domain.RequestConfirmed) {
			return nil, fmt.Errorf("%w: request %d has status %s", domain.ErrConflict, req.ID, req.Status)
		}
		if event.ConfirmedRequests < event.ParticipantLimit {
			req.Status = domain.RequestConfirmed
			confirmed = append(confirmed, req)
			event.ConfirmedRequests++
		} else {
			req.Status = domain.RequestRejected
			rejected = append(rejected, req)
		}
	}
	return &domain.StatusUpdateResult{
		ConfirmedRequests: confirmed,
		RejectedRequests:  rejected,
	}, nil
}

// notifyDecisions emails each decided requester. Notification is best-effort
// and never fails the batch.
func (s *admissionService) notifyDecisions(ctx context.Context, event *domain.Event, result *domain.StatusUpdateResult) {
	if s.emailService == nil {
		return
	}
	send := func(req *domain.Request, confirmedSeat bool) {
		user, err := s.userRepo.GetByID(ctx, req.RequesterID)
		if err != nil || user.Email == "" {
			return
		}
		data := &domain.AdmissionDecisionEmailData{
			Email:      user.Email,
			EventTitle: event.Title,
			EventDate:  domain.FormatDateTime(event.EventDate),
			Confirmed:  confirmedSeat,
		}
		if err := s.emailService.SendAdmissionDecision(ctx, data); err != nil {
			s.logger.Warn("admission decision email failed", "request", req.ID, "err", err)
		}
	}
	for _, req := range result.ConfirmedRequests {
		send(req, true)
	}
	for _, req := range result.RejectedRequests {
		send(req, false)
	}
}

func (s *admissionService) ListRequests(ctx context.Context, initiatorID, eventID int64) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrForbidden
	}
	requests, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if requests == nil {
		requests = []*domain.Request{}
	}
	return requests, nil
}

func (s *admissionService) ListOwnRequests(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	requests, err := s.requestRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if requests == nil {
		requests = []*domain.Request{}
	}
	return requests, nil
}

func (s *admissionService) CancelRequest(ctx context.Context, requesterID, requestID int64) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req.RequesterID != requesterID {
		return nil, domain.ErrForbidden
	}
	if !req.Status.CanTransitionTo(domain.RequestCanceled) {
		return nil, fmt.Errorf("%w: request %d has status %s", domain.ErrConflict, req.ID, req.Status)
	}
	req.Status = domain.RequestCanceled
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	return req, nil
}
