// Package stats implements the view-statistics collector: it records hits
// from client applications and answers windowed view-count queries.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cityevents/internal/domain"
)

type statsService struct {
	hitRepo        domain.HitRepository
	contextTimeout time.Duration
}

// NewService creates the collector service backed by the given hit store.
func NewService(hitRepo domain.HitRepository, timeout time.Duration) domain.StatsService {
	return &statsService{
		hitRepo:        hitRepo,
		contextTimeout: timeout,
	}
}

func (s *statsService) CreateHit(ctx context.Context, hit *domain.Hit) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if hit == nil {
		return fmt.Errorf("%w: hit is nil", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(hit.App) == "" || strings.TrimSpace(hit.URI) == "" || strings.TrimSpace(hit.IP) == "" {
		return fmt.Errorf("%w: app, uri, and ip must not be blank", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseDateTime(hit.Timestamp); err != nil {
		return err
	}
	if err := s.hitRepo.Insert(ctx, hit); err != nil {
		return fmt.Errorf("insert hit: %w", err)
	}
	return nil
}

// GetStats returns aggregate hit counts for [start, end]. Empty uris means
// all URIs; unique deduplicates hits by IP within the window.
func (s *statsService) GetStats(ctx context.Context, start, end string, uris []string, unique bool) ([]domain.ViewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	startTime, err := domain.ParseDateTime(start)
	if err != nil {
		return nil, err
	}
	endTime, err := domain.ParseDateTime(end)
	if err != nil {
		return nil, err
	}
	if startTime.After(endTime) {
		return nil, fmt.Errorf("%w: start %q is after end %q", domain.ErrInvalidInput, start, end)
	}

	var stats []domain.ViewStats
	switch {
	case len(uris) == 0 && !unique:
		stats, err = s.hitRepo.CountByPeriod(ctx, start, end)
	case len(uris) == 0:
		stats, err = s.hitRepo.CountByPeriodUnique(ctx, start, end)
	case !unique:
		stats, err = s.hitRepo.CountByPeriodAndURIs(ctx, start, end, uris)
	default:
		stats, err = s.hitRepo.CountByPeriodAndURIsUnique(ctx, start, end, uris)
	}
	if err != nil {
		return nil, fmt.Errorf("count hits: %w", err)
	}
	if stats == nil {
		stats = []domain.ViewStats{}
	}
	return stats, nil
}
