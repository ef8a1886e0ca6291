package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/timeledger/internal/domain"
)

// EntryRepo defines the persistence operations for TimeEntries.
// Entries are never updated in place; the ledger only inserts and deletes.
type EntryRepo interface {
	// Create inserts a new entry. The ID is supplied by the caller.
	Create(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error)

	// GetByID retrieves a single entry.
	// Returns domain.ErrNotFound if no entry with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error)

	// List returns entries matching the filter, most recent start first.
	List(ctx context.Context, f domain.EntryFilter) ([]domain.TimeEntry, error)

	// Delete removes an entry by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgEntryRepo is the Postgres implementation of EntryRepo.
type pgEntryRepo struct {
	db db
}

// NewEntryRepo constructs an EntryRepo backed by the provided db connection.
func NewEntryRepo(db db) EntryRepo {
	return &pgEntryRepo{db: db}
}

const entryColumns = `id, project_id, description, start_time, end_time, duration_minutes, billable, tags, created_at, updated_at`

func (r *pgEntryRepo) Create(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	result, err := insertEntry(ctx, r.db, e)
	if err != nil {
		return domain.TimeEntry{}, wrap("repo.EntryRepo.Create", err)
	}
	return result, nil
}

func (r *pgEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TimeEntry, error) {
	const q = `SELECT ` + entryColumns + ` FROM time_entries WHERE id = @id`

	result, err := scanEntry(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TimeEntry{}, wrap("repo.EntryRepo.GetByID", err)
	}
	return result, nil
}

// List applies each filter only when it is set. Ties on start_time are
// broken by id so repeated calls return the same order.
func (r *pgEntryRepo) List(ctx context.Context, f domain.EntryFilter) ([]domain.TimeEntry, error) {
	const q = `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE (@project_id::bigint IS NULL OR project_id = @project_id)
		  AND (@from::timestamptz IS NULL OR start_time >= @from)
		  AND (@to::timestamptz IS NULL OR start_time < @to)
		  AND (NOT @billable_only::boolean OR billable)
		ORDER BY start_time DESC, id DESC`

	args := pgx.NamedArgs{
		"project_id":    f.ProjectID,
		"from":          f.From,
		"to":            f.To,
		"billable_only": f.BillableOnly,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, wrap("repo.EntryRepo.List", err)
	}
	defer rows.Close()

	entries := []domain.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrap("repo.EntryRepo.List: scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("repo.EntryRepo.List: rows", err)
	}
	return entries, nil
}

func (r *pgEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM time_entries WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return wrap("repo.EntryRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("repo.EntryRepo.Delete", domain.ErrNotFound)
	}
	return nil
}

// insertEntry is shared by EntryRepo.Create and TimerRepo.Stop, which runs
// it inside its own transaction.
func insertEntry(ctx context.Context, db db, e domain.TimeEntry) (domain.TimeEntry, error) {
	const q = `
		INSERT INTO time_entries (id, project_id, description, start_time, end_time, duration_minutes, billable, tags)
		VALUES (@id, @project_id, @description, @start_time, @end_time, @duration_minutes, @billable, @tags)
		RETURNING ` + entryColumns

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	args := pgx.NamedArgs{
		"id":               e.ID,
		"project_id":       e.ProjectID,
		"description":      e.Description,
		"start_time":       e.StartTime,
		"end_time":         e.EndTime,
		"duration_minutes": e.DurationMinutes,
		"billable":         e.Billable,
		"tags":             tags,
	}
	return scanEntry(db.QueryRow(ctx, q, args))
}

// scanEntry maps a single database row into a domain.TimeEntry.
func scanEntry(s scanner) (domain.TimeEntry, error) {
	var (
		e  domain.TimeEntry
		id pgtype.UUID
	)
	err := s.Scan(&id, &e.ProjectID, &e.Description, &e.StartTime, &e.EndTime,
		&e.DurationMinutes, &e.Billable, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TimeEntry{}, domain.ErrNotFound
		}
		return domain.TimeEntry{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}
