package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"cityevents/internal/domain"
)

type hitRepository struct {
	DB *sql.DB
}

func NewHitRepository(db *sql.DB) domain.HitRepository {
	return &hitRepository{
		DB: db,
	}
}

// Timestamps arrive pre-validated in the boundary format, so they are passed
// straight to to_timestamp.
const tsFormat = "YYYY-MM-DD HH24:MI:SS"

func (r *hitRepository) Insert(ctx context.Context, hit *domain.Hit) error {
	query := `
		INSERT INTO hits (app, uri, ip, created)
		VALUES ($1, $2, $3, to_timestamp($4, '` + tsFormat + `'))
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, hit.App, hit.URI, hit.IP, hit.Timestamp).Scan(&hit.ID)
}

func (r *hitRepository) CountByPeriod(ctx context.Context, start, end string) ([]domain.ViewStats, error) {
	query := `
		SELECT app, uri, COUNT(ip) AS hits
		FROM hits
		WHERE created BETWEEN to_timestamp($1, '` + tsFormat + `') AND to_timestamp($2, '` + tsFormat + `')
		GROUP BY app, uri
		ORDER BY hits DESC
	`
	return r.queryStats(ctx, query, start, end)
}

func (r *hitRepository) CountByPeriodUnique(ctx context.Context, start, end string) ([]domain.ViewStats, error) {
	query := `
		SELECT app, uri, COUNT(DISTINCT ip) AS hits
		FROM hits
		WHERE created BETWEEN to_timestamp($1, '` + tsFormat + `') AND to_timestamp($2, '` + tsFormat + `')
		GROUP BY app, uri
		ORDER BY hits DESC
	`
	return r.queryStats(ctx, query, start, end)
}

func (r *hitRepository) CountByPeriodAndURIs(ctx context.Context, start, end string, uris []string) ([]domain.ViewStats, error) {
	query := `
		SELECT app, uri, COUNT(ip) AS hits
		FROM hits
		WHERE created BETWEEN to_timestamp($1, '` + tsFormat + `') AND to_timestamp($2, '` + tsFormat + `')
			AND uri = ANY($3)
		GROUP BY app, uri
		ORDER BY hits DESC
	`
	return r.queryStats(ctx, query, start, end, pq.Array(uris))
}

func (r *hitRepository) CountByPeriodAndURIsUnique(ctx context.Context, start, end string, uris []string) ([]domain.ViewStats, error) {
	query := `
		SELECT app, uri, COUNT(DISTINCT ip) AS hits
		FROM hits
		WHERE created BETWEEN to_timestamp($1, '` + tsFormat + `') AND to_timestamp($2, '` + tsFormat + `')
			AND uri = ANY($3)
		GROUP BY app, uri
		ORDER BY hits DESC
	`
	return r.queryStats(ctx, query, start, end, pq.Array(uris))
}

func (r *hitRepository) queryStats(ctx context.Context, query string, args ...any) ([]domain.ViewStats, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]domain.ViewStats, 0)
	for rows.Next() {
		var st domain.ViewStats
		if err := rows.Scan(&st.App, &st.URI, &st.Hits); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
