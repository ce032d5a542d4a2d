package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cityevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	categoryRepo   domain.CategoryRepository
	enrichment     domain.EnrichmentService
	contextTimeout time.Duration
}

// NewEventService creates the service that owns the event lifecycle state
// machine.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	categoryRepo domain.CategoryRepository,
	enrichment domain.EnrichmentService,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		enrichment:     enrichment,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, initiatorID int64, draft domain.NewEvent) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := checkEventDate(draft.EventDate); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.categoryRepo.GetByID(ctx, draft.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	event := &domain.Event{
		Annotation:        draft.Annotation,
		CategoryID:        draft.CategoryID,
		Description:       draft.Description,
		EventDate:         draft.EventDate,
		InitiatorID:       initiatorID,
		Location:          draft.Location,
		Paid:              draft.Paid,
		ParticipantLimit:  draft.ParticipantLimit,
		RequestModeration: draft.RequestModeration,
		State:             domain.StatePending,
		Title:             draft.Title,
		CreatedOn:         time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, initiatorID, eventID int64, patch domain.EventPatch, visitor domain.VisitorContext) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if event.InitiatorID != initiatorID {
		return nil, domain.ErrForbidden
	}
	// A published event is immutable; only derived counters may change.
	if event.State == domain.StatePublished {
		return nil, domain.ErrConflict
	}
	return s.applyPatch(ctx, event, patch, visitor)
}

func (s *eventService) UpdateByAdmin(ctx context.Context, eventID int64, patch domain.EventPatch, visitor domain.VisitorContext) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	// A published event is immutable for admins too; only lifecycle actions
	// on non-published states go through.
	if event.State == domain.StatePublished && patch.HasFieldEdits() {
		return nil, domain.ErrConflict
	}
	if patch.StateAction != nil {
		switch *patch.StateAction {
		case domain.ActionPublishEvent:
			if event.State != domain.StatePending {
				return nil, domain.ErrConflict
			}
		case domain.ActionRejectEvent:
			if event.State == domain.StatePublished {
				return nil, domain.ErrConflict
			}
		}
	}
	return s.applyPatch(ctx, event, patch, visitor)
}

// applyPatch applies the non-nil fields of patch onto event, resolves the
// lifecycle action, refreshes or zeroes the derived counters, and persists
// the result.
func (s *eventService) applyPatch(ctx context.Context, event *domain.Event, patch domain.EventPatch, visitor domain.VisitorContext) (*domain.Event, error) {
	if patch.EventDate != nil {
		if err := checkEventDate(*patch.EventDate); err != nil {
			return nil, err
		}
		event.EventDate = *patch.EventDate
	}
	if patch.Annotation != nil {
		event.Annotation = *patch.Annotation
	}
	if patch.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *patch.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
		event.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Paid != nil {
		event.Paid = *patch.Paid
	}
	if patch.ParticipantLimit != nil {
		event.ParticipantLimit = *patch.ParticipantLimit
	}
	if patch.RequestModeration != nil {
		event.RequestModeration = *patch.RequestModeration
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.StateAction != nil {
		state, err := patch.StateAction.Resolve()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		event.State = state
		if state == domain.StatePublished && event.PublishedOn == nil {
			now := time.Now()
			event.PublishedOn = &now
		}
	}

	if err := s.enrichment.Apply(ctx, event, visitor); err != nil {
		return nil, fmt.Errorf("enrich event: %w", err)
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, initiatorID, eventID int64, visitor domain.VisitorContext) (*domain.Event, error) {
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
	if err := s.enrichment.Apply(ctx, event, visitor); err != nil {
		return nil, fmt.Errorf("enrich event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListByInitiator(ctx context.Context, initiatorID int64, params domain.PaginationParams, visitor domain.VisitorContext) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := params.Validate(); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	events, err := s.eventRepo.ListByInitiator(ctx, initiatorID, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	if err := s.enrichment.ApplyAll(ctx, events, visitor); err != nil {
		return nil, fmt.Errorf("enrich events: %w", err)
	}
	return events, nil
}

// checkEventDate enforces the minimum scheduling advance.
func checkEventDate(date time.Time) error {
	if date.Before(time.Now().Add(domain.MinAdvance)) {
		return fmt.Errorf("%w: event date must be at least %s in the future", domain.ErrInvalidInput, domain.MinAdvance)
	}
	return nil
}
