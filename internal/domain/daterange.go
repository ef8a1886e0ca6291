package domain

import (
	"fmt"
	"time"
)

// Preset names a relative date range resolved against "today".
type Preset string

const (
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetThisWeek  Preset = "this_week"
	PresetLastWeek  Preset = "last_week"
	PresetThisMonth Preset = "this_month"
	PresetLastMonth Preset = "last_month"
)

// Presets lists every accepted preset in display order.
var Presets = []Preset{
	PresetToday, PresetYesterday, PresetThisWeek, PresetLastWeek, PresetThisMonth, PresetLastMonth,
}

// Valid reports whether p is one of the supported presets.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// RangeSpec is what callers hand to the aggregator: either a Preset or an
// explicit pair of calendar dates. Only the year, month and day of Start and
// End are used; their clock and location are ignored.
type RangeSpec struct {
	Preset Preset
	Start  *time.Time
	End    *time.Time
}

// IsZero reports whether no range was requested at all.
func (s RangeSpec) IsZero() bool {
	return s.Preset == "" && s.Start == nil && s.End == nil
}

// DateRange is an inclusive span of calendar days in a fixed location.
// Start and End are local midnights.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// From returns the first instant covered by the range.
func (r DateRange) From() time.Time { return r.Start }

// Until returns the first instant after the range: midnight of the day
// following End. Computed with time.Date so DST transitions are handled.
func (r DateRange) Until() time.Time {
	y, m, d := r.End.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, r.End.Location())
}

// Contains reports whether t falls on one of the range's calendar days.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From()) && t.Before(r.Until())
}

// String renders the range as "YYYY-MM-DD..YYYY-MM-DD".
func (r DateRange) String() string {
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}

// Day truncates t to local midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// WeekStart returns midnight of the ISO week's Monday containing day.
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	y, m, d := day.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, day.Location())
}

// ResolveRange turns a RangeSpec into concrete days, using now (viewed in
// loc) as "today". Exactly one of Preset or the explicit pair must be set.
func ResolveRange(spec RangeSpec, now time.Time, loc *time.Location) (DateRange, error) {
	explicit := spec.Start != nil || spec.End != nil
	switch {
	case spec.Preset != "" && explicit:
		return DateRange{}, fmt.Errorf("%w: give either a preset or start/end dates, not both", ErrValidation)
	case explicit:
		if spec.Start == nil || spec.End == nil {
			return DateRange{}, fmt.Errorf("%w: both start and end dates are required", ErrValidation)
		}
		r := DateRange{Start: civil(*spec.Start, loc), End: civil(*spec.End, loc)}
		if r.End.Before(r.Start) {
			return DateRange{}, fmt.Errorf("%w: end %s is before start %s",
				ErrInvalidRange, r.End.Format(time.DateOnly), r.Start.Format(time.DateOnly))
		}
		return r, nil
	case spec.Preset == "":
		return DateRange{}, fmt.Errorf("%w: a date range is required", ErrValidation)
	}

	today := Day(now, loc)
	y, m, d := today.Date()

	switch spec.Preset {
	case PresetToday:
		return DateRange{Start: today, End: today}, nil
	case PresetYesterday:
		yesterday := time.Date(y, m, d-1, 0, 0, 0, 0, loc)
		return DateRange{Start: yesterday, End: yesterday}, nil
	case PresetThisWeek:
		return DateRange{Start: WeekStart(today), End: today}, nil
	case PresetLastWeek:
		monday := WeekStart(today)
		my, mm, md := monday.Date()
		return DateRange{
			Start: time.Date(my, mm, md-7, 0, 0, 0, 0, loc),
			End:   time.Date(my, mm, md-1, 0, 0, 0, 0, loc),
		}, nil
	case PresetThisMonth:
		return DateRange{Start: time.Date(y, m, 1, 0, 0, 0, 0, loc), End: today}, nil
	case PresetLastMonth:
		return DateRange{
			Start: time.Date(y, m-1, 1, 0, 0, 0, 0, loc),
			End:   time.Date(y, m, 0, 0, 0, 0, 0, loc), // day 0 is the last day of the previous month
		}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown range preset %q", ErrValidation, spec.Preset)
	}
}

// civil keeps only the calendar date of t and places it at midnight in loc.
func civil(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
