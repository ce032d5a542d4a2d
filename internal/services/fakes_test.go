package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"cityevents/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[int64]*domain.Event
	nextID int64
	err    error // if set, every call returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[int64]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	e.ID = f.nextID
	f.nextID++
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) ListByInitiator(ctx context.Context, initiatorID int64, params domain.PaginationParams) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.InitiatorID == initiatorID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeRequestRepo is an in-memory RequestRepository for tests. Reads return
// copies so an aborted batch cannot leak partial mutations into the store.
type fakeRequestRepo struct {
	mu             sync.Mutex
	byID           map[int64]*domain.Request
	order          []int64
	nextID         int64
	createErr      error
	updateAllErr   error
	updateAllCalls int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		byID:   make(map[int64]*domain.Request),
		nextID: 1,
	}
}

func (f *fakeRequestRepo) add(req domain.Request) *domain.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.nextID
	f.nextID++
	f.byID[req.ID] = &req
	f.order = append(f.order, req.ID)
	cp := req
	return &cp
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *domain.Request) error {
	if f.createErr != nil {
		return f.createErr
	}
	stored := f.add(*req)
	req.ID = stored.ID
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestRepo) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Request, 0)
	for _, id := range f.order {
		if req := f.byID[id]; req.EventID == eventID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Request, 0)
	for _, id := range f.order {
		if req := f.byID[id]; req.RequesterID == requesterID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Request, 0, len(ids))
	for _, id := range ids {
		if req, ok := f.byID[id]; ok {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) GetActiveByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.byID {
		if req.RequesterID == requesterID && req.EventID == eventID && req.Status != domain.RequestCanceled {
			cp := *req
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRequestRepo) CountByEventAndStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, req := range f.byID {
		if req.EventID == eventID && req.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req *domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[req.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *req
	f.byID[req.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) UpdateAll(ctx context.Context, reqs []*domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateAllCalls++
	if f.updateAllErr != nil {
		return f.updateAllErr
	}
	for _, req := range reqs {
		if _, ok := f.byID[req.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *req
		f.byID[req.ID] = &cp
	}
	return nil
}

func (f *fakeRequestRepo) statusOf(id int64) domain.RequestStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Status
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[int64]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID map[int64]*domain.Category
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{byID: make(map[int64]*domain.Category)}
	for _, c := range categories {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

// fakeStatsClient records hits in memory and serves canned view counts.
type fakeStatsClient struct {
	mu        sync.Mutex
	hits      []domain.Hit
	views     map[string]int64
	recordErr error
	queryErr  error
}

func newFakeStatsClient() *fakeStatsClient {
	return &fakeStatsClient{views: make(map[string]int64)}
}

func (f *fakeStatsClient) RecordHit(ctx context.Context, hit domain.Hit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.hits = append(f.hits, hit)
	return nil
}

func (f *fakeStatsClient) QueryViews(ctx context.Context, start, end string, uris []string, unique bool) ([]domain.ViewStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]domain.ViewStats, 0, len(uris))
	for _, uri := range uris {
		if hits, ok := f.views[uri]; ok {
			out = append(out, domain.ViewStats{App: "test", URI: uri, Hits: hits})
		}
	}
	return out, nil
}

// fakeEmailService records admission decision notifications.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.AdmissionDecisionEmailData
	err  error
}

func (f *fakeEmailService) SendAdmissionDecision(ctx context.Context, data *domain.AdmissionDecisionEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
