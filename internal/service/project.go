// Package service contains the business logic for the time ledger.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here. Services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/repo"
)

// ProjectService implements business logic for the project registry and
// owns project reference resolution for the other services.
type ProjectService struct {
	repo            repo.ProjectRepo
	defaultCurrency string
}

// NewProjectService constructs a ProjectService backed by the provided ProjectRepo.
// defaultCurrency is applied to new projects that do not name one; an empty
// value falls back to domain.DefaultCurrency.
func NewProjectService(r repo.ProjectRepo, defaultCurrency string) *ProjectService {
	if defaultCurrency == "" {
		defaultCurrency = domain.DefaultCurrency
	}
	return &ProjectService{repo: r, defaultCurrency: defaultCurrency}
}

// Create validates and persists a new project.
// Returns domain.ErrValidation if the name is blank, the rate negative, or
// the currency unknown.
func (s *ProjectService) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Client = strings.TrimSpace(p.Client)
	p.Description = strings.TrimSpace(p.Description)
	if p.Currency == "" {
		p.Currency = s.defaultCurrency
	}

	if err := validateName(p.Name); err != nil {
		return domain.Project{}, err
	}
	if err := validateRate(p.HourlyRate); err != nil {
		return domain.Project{}, err
	}
	code, err := domain.NormalizeCurrency(p.Currency)
	if err != nil {
		return domain.Project{}, err
	}
	p.Currency = code

	result, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Project{}, fmt.Errorf("service.ProjectService.Create: %w", err)
	}
	return result, nil
}

// Get returns a single project by ID.
func (s *ProjectService) Get(ctx context.Context, id int64) (domain.Project, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Project{}, fmt.Errorf("service.ProjectService.Get: %w", err)
	}
	return result, nil
}

// List returns projects matching f ordered by creation time.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ProjectService) List(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	projects, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.ProjectService.List: %w", err)
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

// ByIDs returns the projects with the given ids keyed by id. Unknown ids are
// simply absent from the map.
func (s *ProjectService) ByIDs(ctx context.Context, ids []int64) (map[int64]domain.Project, error) {
	out := make(map[int64]domain.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	projects, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.ProjectService.ByIDs: %w", err)
	}
	for _, p := range projects {
		out[p.ID] = p
	}
	return out, nil
}

// Update applies a partial update. Fields present in patch are validated
// with the same rules as Create.
// Returns domain.ErrValidation for an empty or invalid patch and
// domain.ErrNotFound if the project does not exist.
func (s *ProjectService) Update(ctx context.Context, id int64, patch domain.ProjectPatch) (domain.Project, error) {
	if patch.IsEmpty() {
		return domain.Project{}, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateName(name); err != nil {
			return domain.Project{}, err
		}
		patch.Name = &name
	}
	if err := validateRate(patch.HourlyRate); err != nil {
		return domain.Project{}, err
	}
	if patch.Currency != nil {
		code, err := domain.NormalizeCurrency(*patch.Currency)
		if err != nil {
			return domain.Project{}, err
		}
		patch.Currency = &code
	}
	patch.Client = trimmed(patch.Client)
	patch.Description = trimmed(patch.Description)

	result, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Project{}, fmt.Errorf("service.ProjectService.Update: %w", err)
	}
	return result, nil
}

// Resolve looks a reference up without turning "no single match" into an
// error. Storage failures are still returned as errors.
func (s *ProjectService) Resolve(ctx context.Context, ref domain.Reference) (domain.Resolution, error) {
	res := domain.Resolution{Ref: ref}

	switch ref.Kind {
	case domain.RefByID:
		p, err := s.repo.GetByID(ctx, ref.ID)
		switch {
		case err == nil:
			res.Candidates = []domain.Project{p}
		case !isNotFound(err):
			return domain.Resolution{}, fmt.Errorf("service.ProjectService.Resolve: %w", err)
		}
	case domain.RefByName:
		if ref.Name == "" {
			return domain.Resolution{}, fmt.Errorf("%w: project name is required", domain.ErrValidation)
		}
		matches, err := s.repo.FindByName(ctx, ref.Name)
		if err != nil {
			return domain.Resolution{}, fmt.Errorf("service.ProjectService.Resolve: %w", err)
		}
		res.Candidates = matches
	default:
		return domain.Resolution{}, fmt.Errorf("%w: project reference is required", domain.ErrValidation)
	}
	return res, nil
}

// ResolveOne resolves ref to exactly one project.
// Returns domain.ErrProjectNotFound when nothing matches and a
// *domain.AmbiguousReferenceError when several projects do.
func (s *ProjectService) ResolveOne(ctx context.Context, ref domain.Reference) (domain.Project, error) {
	res, err := s.Resolve(ctx, ref)
	if err != nil {
		return domain.Project{}, err
	}
	return res.Project()
}

// validateName rejects blank project names.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return nil
}

// validateRate accepts a missing rate or a rate in whole cents between 0
// and domain.MaxRate.
func validateRate(rate *float64) error {
	if rate == nil {
		return nil
	}
	if !domain.ValidRate(*rate) {
		return fmt.Errorf("%w: hourly_rate must be between 0 and %.2f with at most 2 decimals",
			domain.ErrValidation, domain.MaxRate)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
