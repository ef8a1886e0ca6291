package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/timeledger/internal/domain"
)

// StartTimerRequest is the body of POST /timer/start.
type StartTimerRequest struct {
	Project     ProjectRef `json:"project"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// TimerStatusResponse is the body of GET /timer. ElapsedSeconds is whole
// seconds since the persisted start time.
type TimerStatusResponse struct {
	Running        bool                `json:"running"`
	Timer          *domain.ActiveTimer `json:"timer,omitempty"`
	Project        *domain.Project     `json:"project,omitempty"`
	ElapsedSeconds int64               `json:"elapsed_seconds"`
	ElapsedMinutes int                 `json:"elapsed_minutes"`
}

// StartTimer handles POST /timer/start.
func (s *Server) StartTimer(w http.ResponseWriter, r *http.Request) {
	var body StartTimerRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	ref, err := body.Project.require()
	if err != nil {
		writeError(w, r, err)
		return
	}

	timer, err := s.timers.Start(r.Context(), ref, body.Description, body.Tags)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, timer)
}

// StopTimer handles POST /timer/stop. The response is the recorded entry.
func (s *Server) StopTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := s.timers.Stop(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GetTimerStatus handles GET /timer.
func (s *Server) GetTimerStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.timers.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusToResponse(status))
}

// DiscardTimer handles DELETE /timer. The abandoned timer is returned so a
// client can show what was thrown away.
func (s *Server) DiscardTimer(w http.ResponseWriter, r *http.Request) {
	timer, err := s.timers.Discard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timer)
}

func statusToResponse(st domain.TimerStatus) TimerStatusResponse {
	return TimerStatusResponse{
		Running:        st.Running,
		Timer:          st.Timer,
		Project:        st.Project,
		ElapsedSeconds: int64(st.Elapsed / time.Second),
		ElapsedMinutes: int(st.Elapsed / time.Minute),
	}
}
