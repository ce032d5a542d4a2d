package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cityevents/internal/domain"
)

type enrichmentService struct {
	requestRepo domain.RequestRepository
	stats       domain.StatsClient
	appName     string
	logger      *slog.Logger
}

// NewEnrichmentService creates the engine that projects confirmed-request and
// view counts onto event snapshots. appName identifies this service in hit
// records.
func NewEnrichmentService(requestRepo domain.RequestRepository, stats domain.StatsClient, appName string, logger *slog.Logger) domain.EnrichmentService {
	return &enrichmentService{
		requestRepo: requestRepo,
		stats:       stats,
		appName:     appName,
		logger:      logger,
	}
}

func (s *enrichmentService) ConfirmedCount(ctx context.Context, eventID int64) (int64, error) {
	count, err := s.requestRepo.CountByEventAndStatus(ctx, eventID, domain.RequestConfirmed)
	if err != nil {
		return 0, fmt.Errorf("count confirmed requests: %w", err)
	}
	return count, nil
}

// Views records the visit and returns the unique hit count for the event's
// URI over its full lifetime. View counts are advisory: any collector failure
// degrades to zero instead of propagating.
func (s *enrichmentService) Views(ctx context.Context, event *domain.Event, visitor domain.VisitorContext) int64 {
	// The hit is recorded under the caller's actual request URI; views are
	// always aggregated under the event's canonical URI.
	eventURI := fmt.Sprintf("/events/%d", event.ID)
	hitURI := visitor.URI
	if hitURI == "" {
		hitURI = eventURI
	}

	hit := domain.Hit{
		App:       s.appName,
		URI:       hitURI,
		IP:        visitor.IP,
		Timestamp: domain.FormatDateTime(time.Now()),
	}
	if err := s.stats.RecordHit(ctx, hit); err != nil {
		s.logger.Warn("record hit failed", "uri", hitURI, "err", err)
	}

	start := domain.FormatDateTime(event.CreatedOn)
	end := domain.FormatDateTime(time.Now())
	stats, err := s.stats.QueryViews(ctx, start, end, []string{eventURI}, true)
	if err != nil {
		s.logger.Warn("query views failed, falling back to zero", "uri", eventURI, "err", err)
		return 0
	}
	var views int64
	for _, st := range stats {
		if st.URI == eventURI {
			views += st.Hits
		}
	}
	return views
}

func (s *enrichmentService) Apply(ctx context.Context, event *domain.Event, visitor domain.VisitorContext) error {
	if event.State != domain.StatePublished {
		event.ConfirmedRequests = 0
		event.Views = 0
		return nil
	}
	count, err := s.ConfirmedCount(ctx, event.ID)
	if err != nil {
		return err
	}
	event.ConfirmedRequests = count
	event.Views = s.Views(ctx, event, visitor)
	return nil
}

func (s *enrichmentService) ApplyAll(ctx context.Context, events []*domain.Event, visitor domain.VisitorContext) error {
	for _, event := range events {
		if err := s.Apply(ctx, event, visitor); err != nil {
			return err
		}
	}
	return nil
}
