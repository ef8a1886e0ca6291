package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/repo"
)

// EntryInput describes a manually recorded interval.
// Billable is optional; nil means billable.
type EntryInput struct {
	Project     domain.Reference
	StartTime   time.Time
	EndTime     time.Time
	Description string
	Billable    *bool
	Tags        []string
}

// EntryQuery narrows List. Nil fields are not applied.
type EntryQuery struct {
	Project      *domain.Reference
	Range        *domain.RangeSpec
	BillableOnly bool
}

// EntryService implements the time-entry ledger.
type EntryService struct {
	projects ProjectResolver
	entries  repo.EntryRepo
	loc      *time.Location
	now      Clock
}

// NewEntryService constructs an EntryService. loc is the installation time
// zone used to resolve date ranges; a nil loc means UTC and a nil clock
// means time.Now.
func NewEntryService(projects ProjectResolver, entries repo.EntryRepo, loc *time.Location, now Clock) *EntryService {
	if loc == nil {
		loc = time.UTC
	}
	return &EntryService{projects: projects, entries: entries, loc: loc, now: now.orDefault()}
}

// Add records a closed interval against the referenced project.
// Returns domain.ErrValidation if EndTime is not strictly after StartTime,
// and the resolution errors of ProjectService.ResolveOne.
func (s *EntryService) Add(ctx context.Context, in EntryInput) (domain.TimeEntry, error) {
	start, end := dbTime(in.StartTime), dbTime(in.EndTime)
	if start.IsZero() || end.IsZero() {
		return domain.TimeEntry{}, fmt.Errorf("%w: start_time and end_time are required", domain.ErrValidation)
	}
	if !end.After(start) {
		return domain.TimeEntry{}, fmt.Errorf("%w: end_time must be after start_time", domain.ErrValidation)
	}

	project, err := s.projects.ResolveOne(ctx, in.Project)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("service.EntryService.Add: %w", err)
	}

	billable := true
	if in.Billable != nil {
		billable = *in.Billable
	}

	result, err := s.entries.Create(ctx, domain.TimeEntry{
		ID:              uuid.New(),
		ProjectID:       project.ID,
		Description:     strings.TrimSpace(in.Description),
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: domain.DurationMinutes(start, end),
		Billable:        billable,
		Tags:            domain.NormalizeTags(in.Tags),
	})
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("service.EntryService.Add: %w", err)
	}
	return result, nil
}

// List returns entries most recent first. It never writes.
// Returns domain.ErrNotFound for an unknown project reference and the
// range errors of domain.ResolveRange.
func (s *EntryService) List(ctx context.Context, q EntryQuery) ([]domain.TimeEntry, error) {
	f := domain.EntryFilter{BillableOnly: q.BillableOnly}

	if q.Project != nil {
		project, err := s.projects.ResolveOne(ctx, *q.Project)
		if err != nil {
			return nil, fmt.Errorf("service.EntryService.List: %w", err)
		}
		f.ProjectID = &project.ID
	}

	if q.Range != nil && !q.Range.IsZero() {
		r, err := domain.ResolveRange(*q.Range, s.now(), s.loc)
		if err != nil {
			return nil, fmt.Errorf("service.EntryService.List: %w", err)
		}
		from, to := r.From(), r.Until()
		f.From, f.To = &from, &to
	}

	entries, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.EntryService.List: %w", err)
	}
	if entries == nil {
		return []domain.TimeEntry{}, nil
	}
	return entries, nil
}

// Get returns one entry by ID.
func (s *EntryService) Get(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error) {
	result, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("service.EntryService.Get: %w", err)
	}
	return result, nil
}

// Delete removes an entry. A second delete of the same ID returns
// domain.ErrNotFound.
func (s *EntryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.EntryService.Delete: %w", err)
	}
	return nil
}
