package domain

import (
	"iter"
	"time"
)

// Timesheet is a day-grouped view of entries over a DateRange.
type Timesheet struct {
	Range           DateRange      `json:"range"`
	ProjectID       *int64         `json:"project_id,omitempty"`
	Days            []TimesheetDay `json:"days"`
	TotalMinutes    int            `json:"total_minutes"`
	BillableMinutes int            `json:"billable_minutes"`
	TotalHours      float64        `json:"total_hours"`
	BillableHours   float64        `json:"billable_hours"`
	Amounts         []Money        `json:"amounts"`
}

// TimesheetDay is one calendar day with at least one entry.
type TimesheetDay struct {
	Date            time.Time   `json:"date"`
	Entries         []TimeEntry `json:"entries"`
	TotalMinutes    int         `json:"total_minutes"`
	BillableMinutes int         `json:"billable_minutes"`
	TotalHours      float64     `json:"total_hours"`
	BillableHours   float64     `json:"billable_hours"`
	Amounts         []Money     `json:"amounts"`
}

// ProjectSummary aggregates one project's entries inside a report range.
type ProjectSummary struct {
	ProjectID       int64    `json:"project_id"`
	Name            string   `json:"name"`
	Client          string   `json:"client,omitempty"`
	Currency        string   `json:"currency"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty"`
	TotalMinutes    int      `json:"total_minutes"`
	BillableMinutes int      `json:"billable_minutes"`
	TotalHours      float64  `json:"total_hours"`
	BillableHours   float64  `json:"billable_hours"`
	Earnings        float64  `json:"earnings"`
	EntryCount      int      `json:"entry_count"`
}

// WeekBucket aggregates the hours of one ISO week. Start is the Monday and
// End the Sunday, even when the report range only covers part of the week.
type WeekBucket struct {
	Year            int       `json:"iso_year"`
	Week            int       `json:"iso_week"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TotalMinutes    int       `json:"total_minutes"`
	BillableMinutes int       `json:"billable_minutes"`
	TotalHours      float64   `json:"total_hours"`
	BillableHours   float64   `json:"billable_hours"`
}

// ReportTotals sums a whole report. Earnings are per currency.
type ReportTotals struct {
	TotalMinutes       int     `json:"total_minutes"`
	BillableMinutes    int     `json:"billable_minutes"`
	TotalHours         float64 `json:"total_hours"`
	BillableHours      float64 `json:"billable_hours"`
	Earnings           []Money `json:"earnings"`
	EntryCount         int     `json:"entry_count"`
	AverageWeeklyHours float64 `json:"average_weekly_hours"`
}

// Report is the project-grouped and week-grouped view over a DateRange.
type Report struct {
	Range    DateRange        `json:"range"`
	Projects []ProjectSummary `json:"projects"`
	Totals   ReportTotals     `json:"totals"`

	// Weeks yields the ISO-week trend in ascending order. Buckets are built
	// as they are pulled; an empty report yields nothing.
	Weeks iter.Seq[WeekBucket] `json:"-"`
}
