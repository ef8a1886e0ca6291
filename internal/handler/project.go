package handler

import (
	"net/http"
	"strings"

	"github.com/pkordes/timeledger/internal/domain"
)

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Client      *string  `json:"client,omitempty"`
	Description *string  `json:"description,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
}

// CreateProject handles POST /projects.
func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body CreateProjectRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}

	created, err := s.projects.Create(r.Context(), requestToProject(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListProjects handles GET /projects.
// Supports ?search= and ?include_archived= (default false).
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	var (
		search          *string
		includeArchived *bool
	)
	q := r.URL.Query()
	if err := queryParam(q, "search", &search); err != nil {
		writeError(w, r, err)
		return
	}
	if err := queryParam(q, "include_archived", &includeArchived); err != nil {
		writeError(w, r, err)
		return
	}

	f := domain.ProjectFilter{}
	if search != nil {
		f.Search = strings.TrimSpace(*search)
	}
	if includeArchived != nil {
		f.IncludeArchived = *includeArchived
	}

	projects, err := s.projects.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject handles GET /projects/{id}.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	project, err := s.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// UpdateProject handles PATCH /projects/{id}. Only the fields present in
// the body are changed; {"archived": true} archives the project.
func (s *Server) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var patch domain.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeBodyError(w, err)
		return
	}

	updated, err := s.projects.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// --- mapping helpers --------------------------------------------------------

// requestToProject converts a CreateProjectRequest body into a domain.Project.
// An absent currency is left empty for the service to default.
func requestToProject(body CreateProjectRequest) domain.Project {
	return domain.Project{
		Name:        body.Name,
		Client:      derefString(body.Client),
		Description: derefString(body.Description),
		HourlyRate:  body.HourlyRate,
		Currency:    derefString(body.Currency),
	}
}

// derefString returns the value of s or "" if s is nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
