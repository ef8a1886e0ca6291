package domain

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeEntry is a closed interval of work attributed to a project.
// Entries are immutable once written; the only mutation is deletion.
type TimeEntry struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       int64     `json:"project_id"`
	Description     string    `json:"description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Billable        bool      `json:"billable"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DurationMinutes returns (end-start) in whole minutes, rounding half up.
// Durations are always positive, so math.Round (half away from zero) is
// the same as half up here.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Seconds() / 60))
}

// EntryFilter narrows a ledger listing at the repo level.
// From is inclusive and To is exclusive; nil bounds are open.
type EntryFilter struct {
	ProjectID    *int64
	From         *time.Time
	To           *time.Time
	BillableOnly bool
}

// NormalizeTags turns caller-supplied tags into a set: trimmed, lower-cased,
// de-duplicated and sorted. Blank tags are dropped. Never returns nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
