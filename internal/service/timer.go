package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/repo"
)

// TimerService is the single-timer state machine: Idle until Start, Running
// until Stop or Discard. The persisted active_timer row is the only record
// of which state it is in; nothing is cached between calls.
type TimerService struct {
	projects ProjectResolver
	timers   repo.TimerRepo
	now      Clock
}

// NewTimerService constructs a TimerService. A nil clock means time.Now.
func NewTimerService(projects ProjectResolver, timers repo.TimerRepo, now Clock) *TimerService {
	return &TimerService{projects: projects, timers: timers, now: now.orDefault()}
}

// Start moves Idle to Running on the referenced project.
// Returns domain.ErrAlreadyRunning if a timer exists (including one created
// concurrently between the check and the insert), domain.ErrProjectNotFound
// or *domain.AmbiguousReferenceError if ref does not resolve to one project.
// Nothing is written unless every check passes.
func (s *TimerService) Start(ctx context.Context, ref domain.Reference, description string, tags []string) (domain.ActiveTimer, error) {
	current, err := s.timers.Get(ctx)
	switch {
	case err == nil:
		return domain.ActiveTimer{}, fmt.Errorf("service.TimerService.Start: %w since %s",
			domain.ErrAlreadyRunning, current.StartTime.Format("2006-01-02 15:04:05"))
	case !errors.Is(err, domain.ErrNotRunning):
		return domain.ActiveTimer{}, fmt.Errorf("service.TimerService.Start: %w", err)
	}

	project, err := s.projects.ResolveOne(ctx, ref)
	if err != nil {
		return domain.ActiveTimer{}, fmt.Errorf("service.TimerService.Start: %w", err)
	}

	timer, err := s.timers.Create(ctx, domain.ActiveTimer{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Description: strings.TrimSpace(description),
		StartTime:   dbTime(s.now()),
		Tags:        domain.NormalizeTags(tags),
	})
	if err != nil {
		return domain.ActiveTimer{}, fmt.Errorf("service.TimerService.Start: %w", err)
	}

	slog.InfoContext(ctx, "timer started",
		"timer_id", timer.ID,
		"project_id", project.ID,
		"project", project.Name,
		"start_time", timer.StartTime,
	)
	return timer, nil
}

// Stop moves Running to Idle and returns the billable TimeEntry the timer
// became. end_time is taken from the clock inside the stop transaction.
// Returns domain.ErrNotRunning when idle, and domain.ErrValidation if the
// clock reads at or before the start time (the timer is then left running).
func (s *TimerService) Stop(ctx context.Context) (domain.TimeEntry, error) {
	entry, err := s.timers.Stop(ctx, func(t domain.ActiveTimer) (domain.TimeEntry, error) {
		end := dbTime(s.now())
		if !end.After(t.StartTime) {
			return domain.TimeEntry{}, fmt.Errorf("%w: stop time %s is not after start time %s",
				domain.ErrValidation, end, t.StartTime)
		}
		return t.Entry(end), nil
	})
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("service.TimerService.Stop: %w", err)
	}

	slog.InfoContext(ctx, "timer stopped",
		"entry_id", entry.ID,
		"project_id", entry.ProjectID,
		"duration_minutes", entry.DurationMinutes,
	)
	return entry, nil
}

// Status reports the current state. Elapsed is recomputed from the persisted
// start time on every call, so it is right straight after a restart.
func (s *TimerService) Status(ctx context.Context) (domain.TimerStatus, error) {
	timer, err := s.timers.Get(ctx)
	if errors.Is(err, domain.ErrNotRunning) {
		return domain.TimerStatus{Running: false}, nil
	}
	if err != nil {
		return domain.TimerStatus{}, fmt.Errorf("service.TimerService.Status: %w", err)
	}

	project, err := s.projects.ResolveOne(ctx, domain.ByID(timer.ProjectID))
	if err != nil {
		return domain.TimerStatus{}, fmt.Errorf("service.TimerService.Status: %w", err)
	}

	return domain.TimerStatus{
		Running: true,
		Timer:   &timer,
		Project: &project,
		Elapsed: timer.Elapsed(s.now()),
	}, nil
}

// Discard abandons the running timer without recording an entry.
// Returns domain.ErrNotRunning when idle.
func (s *TimerService) Discard(ctx context.Context) (domain.ActiveTimer, error) {
	timer, err := s.timers.Discard(ctx)
	if err != nil {
		return domain.ActiveTimer{}, fmt.Errorf("service.TimerService.Discard: %w", err)
	}

	slog.InfoContext(ctx, "timer discarded",
		"timer_id", timer.ID,
		"project_id", timer.ProjectID,
		"start_time", timer.StartTime,
	)
	return timer, nil
}
