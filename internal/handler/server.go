// Package handler implements the HTTP handlers for the time ledger API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (project.go, timer.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/service"
)

// ProjectServicer defines the registry operations the project handlers use.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ProjectServicer interface {
	Create(ctx context.Context, p domain.Project) (domain.Project, error)
	Get(ctx context.Context, id int64) (domain.Project, error)
	List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)
	Update(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error)
}

// TimerServicer defines the timer state machine operations.
type TimerServicer interface {
	Start(ctx context.Context, ref domain.Reference, description string, tags []string) (domain.ActiveTimer, error)
	Stop(ctx context.Context) (domain.TimeEntry, error)
	Status(ctx context.Context) (domain.TimerStatus, error)
	Discard(ctx context.Context) (domain.ActiveTimer, error)
}

// EntryServicer defines the ledger operations.
type EntryServicer interface {
	Add(ctx context.Context, in service.EntryInput) (domain.TimeEntry, error)
	List(ctx context.Context, q service.EntryQuery) ([]domain.TimeEntry, error)
	Get(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportServicer defines the aggregator operations.
type ReportServicer interface {
	Timesheet(ctx context.Context, spec domain.RangeSpec, project *domain.Reference) (domain.Timesheet, error)
	Report(ctx context.Context, spec domain.RangeSpec) (domain.Report, error)
}

// compile-time checks: the concrete services satisfy the handler interfaces.
var (
	_ ProjectServicer = (*service.ProjectService)(nil)
	_ TimerServicer   = (*service.TimerService)(nil)
	_ EntryServicer   = (*service.EntryService)(nil)
	_ ReportServicer  = (*service.ReportService)(nil)
)

// Server holds the services every handler reaches into.
// Wire it in main.go and mount Routes on the root router.
type Server struct {
	projects ProjectServicer
	timers   TimerServicer
	entries  EntryServicer
	reports  ReportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(projects ProjectServicer, timers TimerServicer, entries EntryServicer, reports ReportServicer) *Server {
	return &Server{projects: projects, timers: timers, entries: entries, reports: reports}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns the API router. Route patterns are registered on a chi
// router so the request logger can report them.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.ListProjects)
		r.Post("/", s.CreateProject)
		r.Get("/{id}", s.GetProject)
		r.Patch("/{id}", s.UpdateProject)
	})

	r.Route("/timer", func(r chi.Router) {
		r.Get("/", s.GetTimerStatus)
		r.Delete("/", s.DiscardTimer)
		r.Post("/start", s.StartTimer)
		r.Post("/stop", s.StopTimer)
	})

	r.Route("/entries", func(r chi.Router) {
		r.Get("/", s.ListEntries)
		r.Post("/", s.AddEntry)
		r.Get("/{id}", s.GetEntry)
		r.Delete("/{id}", s.DeleteEntry)
	})

	r.Get("/timesheet", s.GetTimesheet)
	r.Get("/report", s.GetReport)

	return r
}
