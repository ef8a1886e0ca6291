package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActiveTimer is the persisted singleton for the one running timer.
// ID is minted when the timer starts and becomes the ID of the TimeEntry
// produced by stopping it.
type ActiveTimer struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Elapsed returns how long the timer has been running at now.
func (t ActiveTimer) Elapsed(now time.Time) time.Duration {
	return now.Sub(t.StartTime)
}

// Entry converts the timer into the billable TimeEntry it becomes when
// stopped at end.
func (t ActiveTimer) Entry(end time.Time) TimeEntry {
	return TimeEntry{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		Description:     t.Description,
		StartTime:       t.StartTime,
		EndTime:         end,
		DurationMinutes: DurationMinutes(t.StartTime, end),
		Billable:        true,
		Tags:            t.Tags,
	}
}

// TimerStatus is the read model returned by Status.
// Timer and Project are nil when Running is false.
type TimerStatus struct {
	Running bool          `json:"running"`
	Timer   *ActiveTimer  `json:"timer,omitempty"`
	Project *Project      `json:"project,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}
