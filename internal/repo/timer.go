package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/timeledger/internal/domain"
)

// TimerRepo persists the active_timer singleton. The table's constant
// primary key guarantees at most one row; every method is a single
// statement or a single transaction.
type TimerRepo interface {
	// Create inserts the timer only if no timer row exists.
	// Returns domain.ErrAlreadyRunning if one does; the existing row is untouched.
	Create(ctx context.Context, t domain.ActiveTimer) (domain.ActiveTimer, error)

	// Get returns the persisted timer, or domain.ErrNotRunning.
	Get(ctx context.Context) (domain.ActiveTimer, error)

	// Stop locks the timer row, asks finish to build the entry it becomes,
	// inserts that entry and deletes the timer, all in one transaction.
	// An error from finish rolls everything back and is returned unchanged.
	// Returns domain.ErrNotRunning if there is no timer.
	Stop(ctx context.Context, finish func(domain.ActiveTimer) (domain.TimeEntry, error)) (domain.TimeEntry, error)

	// Discard deletes the timer without recording an entry and returns what
	// was deleted. Returns domain.ErrNotRunning if there is no timer.
	Discard(ctx context.Context) (domain.ActiveTimer, error)
}

// pgTimerRepo is the Postgres implementation of TimerRepo.
type pgTimerRepo struct {
	db db
}

// NewTimerRepo constructs a TimerRepo backed by the provided db connection.
func NewTimerRepo(db db) TimerRepo {
	return &pgTimerRepo{db: db}
}

const timerColumns = `id, project_id, description, start_time, tags, created_at`

// Create relies on ON CONFLICT (slot) DO NOTHING: when a row already exists
// RETURNING yields nothing, which is how a lost race is detected.
func (r *pgTimerRepo) Create(ctx context.Context, t domain.ActiveTimer) (domain.ActiveTimer, error) {
	const q = `
		INSERT INTO active_timer (id, project_id, description, start_time, tags)
		VALUES (@id, @project_id, @description, @start_time, @tags)
		ON CONFLICT (slot) DO NOTHING
		RETURNING ` + timerColumns

	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	args := pgx.NamedArgs{
		"id":          t.ID,
		"project_id":  t.ProjectID,
		"description": t.Description,
		"start_time":  t.StartTime,
		"tags":        tags,
	}

	result, err := scanTimer(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ActiveTimer{}, wrap("repo.TimerRepo.Create", domain.ErrAlreadyRunning)
	}
	if err != nil {
		return domain.ActiveTimer{}, wrap("repo.TimerRepo.Create", err)
	}
	return result, nil
}

func (r *pgTimerRepo) Get(ctx context.Context) (domain.ActiveTimer, error) {
	const q = `SELECT ` + timerColumns + ` FROM active_timer`

	result, err := scanTimer(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.ActiveTimer{}, wrap("repo.TimerRepo.Get", notRunning(err))
	}
	return result, nil
}

func (r *pgTimerRepo) Stop(ctx context.Context, finish func(domain.ActiveTimer) (domain.TimeEntry, error)) (domain.TimeEntry, error) {
	var entry domain.TimeEntry

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		const lock = `SELECT ` + timerColumns + ` FROM active_timer FOR UPDATE`

		timer, err := scanTimer(tx.QueryRow(ctx, lock))
		if err != nil {
			return notRunning(err)
		}

		e, err := finish(timer)
		if err != nil {
			return err
		}

		entry, err = insertEntry(ctx, tx, e)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM active_timer`); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return domain.TimeEntry{}, wrap("repo.TimerRepo.Stop", err)
	}
	return entry, nil
}

func (r *pgTimerRepo) Discard(ctx context.Context) (domain.ActiveTimer, error) {
	const q = `DELETE FROM active_timer RETURNING ` + timerColumns

	result, err := scanTimer(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.ActiveTimer{}, wrap("repo.TimerRepo.Discard", notRunning(err))
	}
	return result, nil
}

// notRunning translates "no timer row" into domain.ErrNotRunning.
func notRunning(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotRunning
	}
	return err
}

// scanTimer maps a single database row into a domain.ActiveTimer.
// pgx.ErrNoRows is returned as-is; callers decide what absence means.
func scanTimer(s scanner) (domain.ActiveTimer, error) {
	var (
		t  domain.ActiveTimer
		id pgtype.UUID
	)
	if err := s.Scan(&id, &t.ProjectID, &t.Description, &t.StartTime, &t.Tags, &t.CreatedAt); err != nil {
		return domain.ActiveTimer{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return t, nil
}
