package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/handler"
	"github.com/pkordes/timeledger/internal/service"
)

// ---- mock servicers --------------------------------------------------------
// Each mock is a test double for one handler servicer interface.
// Set only the method fields your test needs.

type mockProjectServicer struct {
	create func(ctx context.Context, p domain.Project) (domain.Project, error)
	get    func(ctx context.Context, id int64) (domain.Project, error)
	list   func(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)
	update func(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error)
}

func (m *mockProjectServicer) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	return m.create(ctx, p)
}
func (m *mockProjectServicer) Get(ctx context.Context, id int64) (domain.Project, error) {
	return m.get(ctx, id)
}
func (m *mockProjectServicer) List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	return m.list(ctx, f)
}
func (m *mockProjectServicer) Update(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	return m.update(ctx, id, patch)
}

type mockTimerServicer struct {
	start   func(ctx context.Context, ref domain.Reference, description string, tags []string) (domain.ActiveTimer, error)
	stop    func(ctx context.Context) (domain.TimeEntry, error)
	status  func(ctx context.Context) (domain.TimerStatus, error)
	discard func(ctx context.Context) (domain.ActiveTimer, error)
}

func (m *mockTimerServicer) Start(ctx context.Context, ref domain.Reference, description string, tags []string) (domain.ActiveTimer, error) {
	return m.start(ctx, ref, description, tags)
}
func (m *mockTimerServicer) Stop(ctx context.Context) (domain.TimeEntry, error) {
	return m.stop(ctx)
}
func (m *mockTimerServicer) Status(ctx context.Context) (domain.TimerStatus, error) {
	return m.status(ctx)
}
func (m *mockTimerServicer) Discard(ctx context.Context) (domain.ActiveTimer, error) {
	return m.discard(ctx)
}

type mockEntryServicer struct {
	add    func(ctx context.Context, in service.EntryInput) (domain.TimeEntry, error)
	list   func(ctx context.Context, q service.EntryQuery) ([]domain.TimeEntry, error)
	get    func(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockEntryServicer) Add(ctx context.Context, in service.EntryInput) (domain.TimeEntry, error) {
	return m.add(ctx, in)
}
func (m *mockEntryServicer) List(ctx context.Context, q service.EntryQuery) ([]domain.TimeEntry, error) {
	return m.list(ctx, q)
}
func (m *mockEntryServicer) Get(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error) {
	return m.get(ctx, id)
}
func (m *mockEntryServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockReportServicer struct {
	timesheet func(ctx context.Context, spec domain.RangeSpec, project *domain.Reference) (domain.Timesheet, error)
	report    func(ctx context.Context, spec domain.RangeSpec) (domain.Report, error)
}

func (m *mockReportServicer) Timesheet(ctx context.Context, spec domain.RangeSpec, project *domain.Reference) (domain.Timesheet, error) {
	return m.timesheet(ctx, spec, project)
}
func (m *mockReportServicer) Report(ctx context.Context, spec domain.RangeSpec) (domain.Report, error) {
	return m.report(ctx, spec)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.ProjectServicer = (*mockProjectServicer)(nil)
	_ handler.TimerServicer   = (*mockTimerServicer)(nil)
	_ handler.EntryServicer   = (*mockEntryServicer)(nil)
	_ handler.ReportServicer  = (*mockReportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services bundles the mocks; nil fields are left unwired.
type services struct {
	projects *mockProjectServicer
	timers   *mockTimerServicer
	entries  *mockEntryServicer
	reports  *mockReportServicer
}

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(s services) http.Handler {
	var (
		p handler.ProjectServicer
		t handler.TimerServicer
		e handler.EntryServicer
		r handler.ReportServicer
	)
	if s.projects != nil {
		p = s.projects
	}
	if s.timers != nil {
		t = s.timers
	}
	if s.entries != nil {
		e = s.entries
	}
	if s.reports != nil {
		r = s.reports
	}
	return handler.NewServer(p, t, e, r).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}

var nineAM = time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)

func projectFixture() domain.Project {
	rate := 100.0
	return domain.Project{
		ID:         1,
		Name:       "Acme",
		Client:     "Acme Corp",
		HourlyRate: &rate,
		Currency:   "USD",
		CreatedAt:  nineAM,
		UpdatedAt:  nineAM,
	}
}

func entryFixture() domain.TimeEntry {
	return domain.TimeEntry{
		ID:              uuid.New(),
		ProjectID:       1,
		Description:     "design review",
		StartTime:       nineAM,
		EndTime:         nineAM.Add(30 * time.Minute),
		DurationMinutes: 30,
		Billable:        true,
		Tags:            []string{"meeting"},
		CreatedAt:       nineAM,
		UpdatedAt:       nineAM,
	}
}
