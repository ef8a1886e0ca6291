package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/timeledger/internal/domain"
)

// ProjectRepo defines the persistence operations for Projects.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type ProjectRepo interface {
	// Create inserts a new project and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, p domain.Project) (domain.Project, error)

	// GetByID retrieves a single project by primary key.
	// Returns domain.ErrNotFound if no project with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Project, error)

	// FindByName returns every project whose trimmed name equals name,
	// ignoring case, ordered by creation. Archived projects are included.
	FindByName(ctx context.Context, name string) ([]domain.Project, error)

	// List returns projects matching the filter ordered by creation time.
	List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)

	// ListByIDs returns the projects with the given ids, archived or not.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Project, error)

	// Update applies the non-nil fields of patch in a single statement and
	// returns the updated record. Returns domain.ErrNotFound if no project
	// with that ID exists.
	Update(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error)
}

// pgProjectRepo is the Postgres implementation of ProjectRepo.
type pgProjectRepo struct {
	db db
}

// NewProjectRepo constructs a ProjectRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewProjectRepo(db db) ProjectRepo {
	return &pgProjectRepo{db: db}
}

// hourly_rate is NUMERIC in the table; it is read back as float8 so it scans
// straight into *float64 (NULL becomes nil).
const projectColumns = `id, name, client, description, hourly_rate::float8, currency, archived, created_at, updated_at`

// Create inserts a new project row and returns the full persisted record.
func (r *pgProjectRepo) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	const q = `
		INSERT INTO projects (name, client, description, hourly_rate, currency, archived)
		VALUES (@name, @client, @description, @hourly_rate, @currency, @archived)
		RETURNING ` + projectColumns

	args := pgx.NamedArgs{
		"name":        p.Name,
		"client":      p.Client,
		"description": p.Description,
		"hourly_rate": p.HourlyRate, // nil becomes NULL
		"currency":    p.Currency,
		"archived":    p.Archived,
	}

	result, err := scanProject(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Project{}, wrap("repo.ProjectRepo.Create", err)
	}
	return result, nil
}

// GetByID retrieves a project by primary key.
func (r *pgProjectRepo) GetByID(ctx context.Context, id int64) (domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = @id`

	result, err := scanProject(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Project{}, wrap("repo.ProjectRepo.GetByID", err)
	}
	return result, nil
}

// FindByName matches lower(btrim(name)) so "Acme" and " acme " collide.
func (r *pgProjectRepo) FindByName(ctx context.Context, name string) ([]domain.Project, error) {
	const q = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE lower(btrim(name)) = lower(btrim(@name))
		ORDER BY created_at, id`

	projects, err := r.queryProjects(ctx, q, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, wrap("repo.ProjectRepo.FindByName", err)
	}
	return projects, nil
}

// List returns projects ordered by created_at ascending.
func (r *pgProjectRepo) List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	const q = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE (@include_archived::boolean OR NOT archived)
		  AND (@search::text = ''
		       OR name        ILIKE @pattern ESCAPE '\'
		       OR client      ILIKE @pattern ESCAPE '\'
		       OR description ILIKE @pattern ESCAPE '\')
		ORDER BY created_at, id`

	search := strings.TrimSpace(f.Search)
	args := pgx.NamedArgs{
		"include_archived": f.IncludeArchived,
		"search":           search,
		"pattern":          "%" + escapeLike(search) + "%",
	}

	projects, err := r.queryProjects(ctx, q, args)
	if err != nil {
		return nil, wrap("repo.ProjectRepo.List", err)
	}
	return projects, nil
}

// ListByIDs returns the matching projects ordered by id.
func (r *pgProjectRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = ANY(@ids) ORDER BY id`

	projects, err := r.queryProjects(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, wrap("repo.ProjectRepo.ListByIDs", err)
	}
	return projects, nil
}

// Update merges patch into the stored row. COALESCE keeps the stored value
// for every nil field, so the read-modify-write happens inside one statement.
func (r *pgProjectRepo) Update(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	const q = `
		UPDATE projects
		SET name        = COALESCE(@name, name),
		    client      = COALESCE(@client, client),
		    description = COALESCE(@description, description),
		    hourly_rate = COALESCE(@hourly_rate, hourly_rate),
		    currency    = COALESCE(@currency, currency),
		    archived    = COALESCE(@archived, archived),
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + projectColumns

	args := pgx.NamedArgs{
		"id":          id,
		"name":        patch.Name,
		"client":      patch.Client,
		"description": patch.Description,
		"hourly_rate": patch.HourlyRate,
		"currency":    patch.Currency,
		"archived":    patch.Archived,
	}

	result, err := scanProject(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Project{}, wrap("repo.ProjectRepo.Update", err)
	}
	return result, nil
}

func (r *pgProjectRepo) queryProjects(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// scanProject maps a single database row into a domain.Project.
func scanProject(s scanner) (domain.Project, error) {
	var p domain.Project
	err := s.Scan(&p.ID, &p.Name, &p.Client, &p.Description, &p.HourlyRate,
		&p.Currency, &p.Archived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, domain.ErrNotFound
		}
		return domain.Project{}, err
	}
	return p, nil
}

// escapeLike neutralises LIKE wildcards so a search for "50%" matches the
// literal text.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
