package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/timeledger/internal/service"
)

// AddEntryRequest is the body of POST /entries. Times are RFC 3339.
type AddEntryRequest struct {
	Project     ProjectRef `json:"project"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Description string     `json:"description,omitempty"`
	Billable    *bool      `json:"billable,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// AddEntry handles POST /entries.
func (s *Server) AddEntry(w http.ResponseWriter, r *http.Request) {
	var body AddEntryRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	ref, err := body.Project.require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.entries.Add(r.Context(), service.EntryInput{
		Project:     ref,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Description: body.Description,
		Billable:    body.Billable,
		Tags:        body.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListEntries handles GET /entries.
// Supports ?project=, ?range= or ?start=&end=, and ?billable_only=.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	project, err := bindReference(q, "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	spec, err := bindRange(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var billableOnly *bool
	if err := queryParam(q, "billable_only", &billableOnly); err != nil {
		writeError(w, r, err)
		return
	}

	query := service.EntryQuery{Project: project}
	if !spec.IsZero() {
		query.Range = &spec
	}
	if billableOnly != nil {
		query.BillableOnly = *billableOnly
	}

	entries, err := s.entries.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetEntry handles GET /entries/{id}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := s.entries.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE /entries/{id}.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := entryID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
