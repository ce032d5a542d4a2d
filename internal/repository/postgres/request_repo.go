package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"cityevents/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `
		INSERT INTO requests (event_id, requester_id, created, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, req.EventID, req.RequesterID, req.Created, string(req.Status)).
		Scan(&req.ID)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := `
		SELECT id, event_id, requester_id, created, status
		FROM requests
		WHERE id = $1
	`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Request, error) {
	query := `
		SELECT id, event_id, requester_id, created, status
		FROM requests
		WHERE event_id = $1
		ORDER BY created
	`
	return r.list(ctx, query, eventID)
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	query := `
		SELECT id, event_id, requester_id, created, status
		FROM requests
		WHERE requester_id = $1
		ORDER BY created
	`
	return r.list(ctx, query, requesterID)
}

// ListByIDs preserves the order of ids so the batch algorithm hands out
// remaining seats in caller order. Unknown ids are simply absent from the
// result.
func (r *requestRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Request, error) {
	if len(ids) == 0 {
		return []*domain.Request{}, nil
	}
	query := `
		SELECT id, event_id, requester_id, created, status
		FROM requests
		WHERE id = ANY($1)
	`
	found, err := r.list(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Request, len(found))
	for _, req := range found {
		byID[req.ID] = req
	}
	ordered := make([]*domain.Request, 0, len(found))
	for _, id := range ids {
		if req, ok := byID[id]; ok {
			ordered = append(ordered, req)
		}
	}
	return ordered, nil
}

func (r *requestRepository) GetActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*domain.Request, error) {
	query := `
		SELECT id, event_id, requester_id, created, status
		FROM requests
		WHERE requester_id = $1 AND event_id = $2 AND status <> $3
	`
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, requesterID, eventID, string(domain.RequestCanceled)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) CountByEventAndStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`
	var count int64
	if err := r.DB.QueryRowContext(ctx, query, eventID, string(status)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) Update(ctx context.Context, req *domain.Request) error {
	query := `UPDATE requests SET status = $1 WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, string(req.Status), req.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateAll persists a batch of status changes atomically; a failure on any
// row rolls the whole batch back.
func (r *requestRepository) UpdateAll(ctx context.Context, reqs []*domain.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE requests SET status = $1 WHERE id = $2`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, req := range reqs {
		if _, err := stmt.ExecContext(ctx, string(req.Status), req.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *requestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Request, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	req := &domain.Request{}
	var status string
	if err := row.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Created, &status); err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)
	return req, nil
}
