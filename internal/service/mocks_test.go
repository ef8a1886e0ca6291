package service_test

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/repo"
)

// mockProjectRepo is a hand-written test double for repo.ProjectRepo.
// Each method is a function field. Set only the ones your test needs.
type mockProjectRepo struct {
	create     func(ctx context.Context, p domain.Project) (domain.Project, error)
	getByID    func(ctx context.Context, id int64) (domain.Project, error)
	findByName func(ctx context.Context, name string) ([]domain.Project, error)
	list       func(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)
	listByIDs  func(ctx context.Context, ids []int64) ([]domain.Project, error)
	update     func(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error)
}

func (m *mockProjectRepo) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	return m.create(ctx, p)
}
func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (domain.Project, error) {
	return m.getByID(ctx, id)
}
func (m *mockProjectRepo) FindByName(ctx context.Context, name string) ([]domain.Project, error) {
	return m.findByName(ctx, name)
}
func (m *mockProjectRepo) List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	return m.list(ctx, f)
}
func (m *mockProjectRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.Project, error) {
	return m.listByIDs(ctx, ids)
}
func (m *mockProjectRepo) Update(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	return m.update(ctx, id, patch)
}

// compile-time check: mockProjectRepo must satisfy repo.ProjectRepo.
var _ repo.ProjectRepo = (*mockProjectRepo)(nil)

// projectsRepo builds a mockProjectRepo whose lookups are served from a
// fixed slice, mirroring the SQL semantics closely enough for service tests.
func projectsRepo(projects ...domain.Project) *mockProjectRepo {
	return &mockProjectRepo{
		getByID: func(_ context.Context, id int64) (domain.Project, error) {
			for _, p := range projects {
				if p.ID == id {
					return p, nil
				}
			}
			return domain.Project{}, domain.ErrNotFound
		},
		findByName: func(_ context.Context, name string) ([]domain.Project, error) {
			out := []domain.Project{}
			for _, p := range projects {
				if strings.EqualFold(p.Name, name) {
					out = append(out, p)
				}
			}
			return out, nil
		},
		listByIDs: func(_ context.Context, ids []int64) ([]domain.Project, error) {
			out := []domain.Project{}
			for _, p := range projects {
				if slices.Contains(ids, p.ID) {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

// mockEntryRepo is a hand-written test double for repo.EntryRepo.
type mockEntryRepo struct {
	create  func(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error)
	list    func(ctx context.Context, f domain.EntryFilter) ([]domain.TimeEntry, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEntryRepo) Create(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	return m.create(ctx, e)
}
func (m *mockEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error) {
	return m.getByID(ctx, id)
}
func (m *mockEntryRepo) List(ctx context.Context, f domain.EntryFilter) ([]domain.TimeEntry, error) {
	return m.list(ctx, f)
}
func (m *mockEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockEntryRepo must satisfy repo.EntryRepo.
var _ repo.EntryRepo = (*mockEntryRepo)(nil)

// entriesRepo serves List from a fixed slice, applying the filter the way the
// SQL does (half-open time bounds, most recent first).
func entriesRepo(entries ...domain.TimeEntry) *mockEntryRepo {
	return &mockEntryRepo{
		list: func(_ context.Context, f domain.EntryFilter) ([]domain.TimeEntry, error) {
			out := []domain.TimeEntry{}
			for _, e := range entries {
				if f.ProjectID != nil && e.ProjectID != *f.ProjectID {
					continue
				}
				if f.From != nil && e.StartTime.Before(*f.From) {
					continue
				}
				if f.To != nil && !e.StartTime.Before(*f.To) {
					continue
				}
				if f.BillableOnly && !e.Billable {
					continue
				}
				out = append(out, e)
			}
			slices.SortFunc(out, func(a, b domain.TimeEntry) int { return b.StartTime.Compare(a.StartTime) })
			return out, nil
		},
	}
}

// memTimerRepo is an in-memory repo.TimerRepo that honours the singleton
// contract, standing in for the active_timer table. Sharing one instance
// between two services models a process restart: nothing but the "row"
// survives.
type memTimerRepo struct {
	mu      sync.Mutex
	row     *domain.ActiveTimer
	entries []domain.TimeEntry
	creates int
}

func (m *memTimerRepo) Create(_ context.Context, t domain.ActiveTimer) (domain.ActiveTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.row != nil {
		return domain.ActiveTimer{}, domain.ErrAlreadyRunning
	}
	t.CreatedAt = t.StartTime
	m.row = &t
	return t, nil
}

func (m *memTimerRepo) Get(_ context.Context) (domain.ActiveTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.row == nil {
		return domain.ActiveTimer{}, domain.ErrNotRunning
	}
	return *m.row, nil
}

func (m *memTimerRepo) Stop(_ context.Context, finish func(domain.ActiveTimer) (domain.TimeEntry, error)) (domain.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.row == nil {
		return domain.TimeEntry{}, domain.ErrNotRunning
	}
	e, err := finish(*m.row)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	m.entries = append(m.entries, e)
	m.row = nil
	return e, nil
}

func (m *memTimerRepo) Discard(_ context.Context) (domain.ActiveTimer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.row == nil {
		return domain.ActiveTimer{}, domain.ErrNotRunning
	}
	t := *m.row
	m.row = nil
	return t, nil
}

// rowCount is 0 or 1; anything else means the singleton invariant broke.
func (m *memTimerRepo) rowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.row == nil {
		return 0
	}
	return 1
}

// compile-time check: memTimerRepo must satisfy repo.TimerRepo.
var _ repo.TimerRepo = (*memTimerRepo)(nil)

// fakeClock is a settable clock for pinning "now".
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) { c.Set(c.Now().Add(d)) }

func rate(v float64) *float64 { return &v }
