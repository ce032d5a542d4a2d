package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cityevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventFixture struct {
	eventRepo    *fakeEventRepo
	requestRepo  *fakeRequestRepo
	userRepo     *fakeUserRepo
	categoryRepo *fakeCategoryRepo
	stats        *fakeStatsClient
	svc          domain.EventService
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		eventRepo:   newFakeEventRepo(),
		requestRepo: newFakeRequestRepo(),
		userRepo: newFakeUserRepo(
			&domain.User{ID: 1, Name: "Organizer", Email: "org@example.com"},
			&domain.User{ID: 2, Name: "Someone", Email: "someone@example.com"},
		),
		categoryRepo: newFakeCategoryRepo(
			&domain.Category{ID: 1, Name: "Concerts"},
			&domain.Category{ID: 2, Name: "Exhibitions"},
		),
		stats: newFakeStatsClient(),
	}
	enrichment := NewEnrichmentService(f.requestRepo, f.stats, "test", testLogger())
	f.svc = NewEventService(f.eventRepo, f.userRepo, f.categoryRepo, enrichment, 5*time.Second)
	return f
}

func validDraft() domain.NewEvent {
	return domain.NewEvent{
		Annotation:        "An evening of live jazz",
		CategoryID:        1,
		Description:       "Three sets, open air",
		EventDate:         time.Now().Add(48 * time.Hour),
		Location:          domain.Location{Lat: 59.93, Lon: 30.31},
		Paid:              true,
		ParticipantLimit:  50,
		RequestModeration: true,
		Title:             "Jazz Night",
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newEventFixture()
		event, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.NotZero(t, event.ID)
		assert.Equal(t, domain.StatePending, event.State)
		assert.Equal(t, int64(1), event.InitiatorID)
		assert.False(t, event.CreatedOn.IsZero())
		assert.Nil(t, event.PublishedOn)
	})

	t.Run("event date too soon", func(t *testing.T) {
		f := newEventFixture()
		draft := validDraft()
		draft.EventDate = time.Now().Add(time.Hour)
		_, err := f.svc.Create(ctx, 1, draft)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("unknown initiator", func(t *testing.T) {
		f := newEventFixture()
		_, err := f.svc.Create(ctx, 99, validDraft())
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newEventFixture()
		draft := validDraft()
		draft.CategoryID = 99
		_, err := f.svc.Create(ctx, 1, draft)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()
	visitor := domain.VisitorContext{URI: "/users/1/events/1", IP: "10.0.0.1"}

	create := func(t *testing.T, f *eventFixture) *domain.Event {
		t.Helper()
		event, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		return event
	}

	t.Run("partial patch leaves other fields alone", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		title := "Jazz Night, Second Edition"
		paid := false

		got, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{Title: &title, Paid: &paid}, visitor)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.False(t, got.Paid)
		assert.Equal(t, event.Annotation, got.Annotation)
		assert.Equal(t, event.CategoryID, got.CategoryID)
		assert.Equal(t, domain.StatePending, got.State)
	})

	t.Run("cancel review moves the event to canceled", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		action := domain.ActionCancelReview

		got, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{StateAction: &action}, visitor)
		require.NoError(t, err)
		assert.Equal(t, domain.StateCanceled, got.State)
	})

	t.Run("send to review returns a canceled event to pending", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		cancel := domain.ActionCancelReview
		_, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{StateAction: &cancel}, visitor)
		require.NoError(t, err)

		resubmit := domain.ActionSendToReview
		got, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{StateAction: &resubmit}, visitor)
		require.NoError(t, err)
		assert.Equal(t, domain.StatePending, got.State)
	})

	t.Run("unknown state action", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		action := domain.StateAction("MAKE_IT_SO")
		_, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{StateAction: &action}, visitor)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("rescheduling too close fails", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		tooSoon := time.Now().Add(30 * time.Minute)
		_, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{EventDate: &tooSoon}, visitor)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("only the initiator may edit", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		title := "Hijacked"
		_, err := f.svc.Update(ctx, 2, event.ID, domain.EventPatch{Title: &title}, visitor)
		require.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("published event is immutable", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		publish := domain.ActionPublishEvent
		_, err := f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &publish}, visitor)
		require.NoError(t, err)

		title := "Too late"
		_, err = f.svc.Update(ctx, 1, event.ID, domain.EventPatch{Title: &title}, visitor)
		require.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("event not found", func(t *testing.T) {
		f := newEventFixture()
		title := "Nope"
		_, err := f.svc.Update(ctx, 1, 404, domain.EventPatch{Title: &title}, visitor)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestEventService_UpdateByAdmin(t *testing.T) {
	ctx := context.Background()
	visitor := domain.VisitorContext{URI: "/admin/events/1", IP: "10.0.0.1"}

	create := func(t *testing.T, f *eventFixture) *domain.Event {
		t.Helper()
		event, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		return event
	}

	t.Run("publishing a pending event stamps published_on", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		publish := domain.ActionPublishEvent

		got, err := f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &publish}, visitor)
		require.NoError(t, err)
		assert.Equal(t, domain.StatePublished, got.State)
		require.NotNil(t, got.PublishedOn)
	})

	t.Run("only pending events can be published", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		cancel := domain.ActionCancelReview
		_, err := f.svc.Update(ctx, 1, event.ID, domain.EventPatch{StateAction: &cancel}, visitor)
		require.NoError(t, err)

		publish := domain.ActionPublishEvent
		_, err = f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &publish}, visitor)
		require.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("published events cannot be rejected", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		publish := domain.ActionPublishEvent
		_, err := f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &publish}, visitor)
		require.NoError(t, err)

		reject := domain.ActionRejectEvent
		_, err = f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &reject}, visitor)
		require.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("published event is immutable to admins as well", func(t *testing.T) {
		f := newEventFixture()
		event := create(t, f)
		publish := domain.ActionPublishEvent
		_, err := f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &publish}, visitor)
		require.NoError(t, err)

		title := "Edited after publication"
		limit := int64(1)
		_, err = f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{Title: &title, ParticipantLimit: &limit}, visitor)
		require.True(t, errors.Is(err, domain.ErrConflict))

		stored, err := f.eventRepo.GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jazz Night", stored.Title)
		assert.Equal(t, int64(50), stored.ParticipantLimit)
	})
}

func TestEventService_Get(t *testing.T) {
	ctx := context.Background()
	visitor := domain.VisitorContext{URI: "/users/1/events/1", IP: "10.0.0.1"}

	t.Run("pending event reads with zero counters", func(t *testing.T) {
		f := newEventFixture()
		event, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		f.requestRepo.add(domain.Request{EventID: event.ID, RequesterID: 2, Status: domain.RequestConfirmed})
		f.stats.views["/events/1"] = 7

		got, err := f.svc.Get(ctx, 1, event.ID, visitor)
		require.NoError(t, err)
		assert.Zero(t, got.ConfirmedRequests)
		assert.Zero(t, got.Views)
	})

	t.Run("published event reads with live counters", func(t *testing.T) {
		f := newEventFixture()
		event, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		publish := domain.ActionPublishEvent
		_, err = f.svc.UpdateByAdmin(ctx, event.ID, domain.EventPatch{StateAction: &publish}, visitor)
		require.NoError(t, err)

		f.requestRepo.add(domain.Request{EventID: event.ID, RequesterID: 2, Status: domain.RequestConfirmed})
		f.stats.views["/events/1"] = 7

		got, err := f.svc.Get(ctx, 1, event.ID, visitor)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ConfirmedRequests)
		assert.Equal(t, int64(7), got.Views)
	})

	t.Run("only the initiator may read the private view", func(t *testing.T) {
		f := newEventFixture()
		event, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		_, err = f.svc.Get(ctx, 2, event.ID, visitor)
		require.True(t, errors.Is(err, domain.ErrForbidden))
	})
}

func TestEventService_ListByInitiator(t *testing.T) {
	ctx := context.Background()
	visitor := domain.VisitorContext{URI: "/users/1/events", IP: "10.0.0.1"}

	t.Run("lists only the initiator's events", func(t *testing.T) {
		f := newEventFixture()
		_, err := f.svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, 2, validDraft())
		require.NoError(t, err)

		got, err := f.svc.ListByInitiator(ctx, 1, domain.PaginationParams{From: 0, Size: 10}, visitor)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].InitiatorID)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		f := newEventFixture()
		_, err := f.svc.ListByInitiator(ctx, 1, domain.PaginationParams{From: -1, Size: 10}, visitor)
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("no events yields empty slice", func(t *testing.T) {
		f := newEventFixture()
		got, err := f.svc.ListByInitiator(ctx, 1, domain.PaginationParams{From: 0, Size: 10}, visitor)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
