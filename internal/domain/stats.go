package domain

import "context"

// Hit is a single recorded visit, keyed by the application identifier and the
// request URI. Timestamp uses DateTimeLayout.
type Hit struct {
	ID        int64  `json:"id,omitempty"`
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats is the aggregate hit count for one (app, uri) pair.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsClient talks to the view-statistics collector. RecordHit is
// fire-and-forget from the caller's point of view: enrichment absorbs its
// failure. QueryViews returns aggregate counts per URI over [start, end];
// empty uris means all URIs; unique deduplicates hits by IP.
type StatsClient interface {
	RecordHit(ctx context.Context, hit Hit) error
	QueryViews(ctx context.Context, start, end string, uris []string, unique bool) ([]ViewStats, error)
}

// HitRepository defines storage operations for the collector's hit log.
// The aggregation variants mirror the (uris, unique) query matrix.
type HitRepository interface {
	Insert(ctx context.Context, hit *Hit) error
	CountByPeriod(ctx context.Context, start, end string) ([]ViewStats, error)
	CountByPeriodUnique(ctx context.Context, start, end string) ([]ViewStats, error)
	CountByPeriodAndURIs(ctx context.Context, start, end string, uris []string) ([]ViewStats, error)
	CountByPeriodAndURIsUnique(ctx context.Context, start, end string, uris []string) ([]ViewStats, error)
}

// StatsService is the collector's own surface: hit recording and windowed
// view queries.
type StatsService interface {
	CreateHit(ctx context.Context, hit *Hit) error
	GetStats(ctx context.Context, start, end string, uris []string, unique bool) ([]ViewStats, error)
}

// EnrichmentService computes the derived confirmed-request and view counts
// for event snapshots.
type EnrichmentService interface {
	ConfirmedCount(ctx context.Context, eventID int64) (int64, error)
	Views(ctx context.Context, event *Event, visitor VisitorContext) int64
	// Apply projects both derived counters onto the snapshot: live values for
	// published events, zeroes otherwise.
	Apply(ctx context.Context, event *Event, visitor VisitorContext) error
	ApplyAll(ctx context.Context, events []*Event, visitor VisitorContext) error
}
