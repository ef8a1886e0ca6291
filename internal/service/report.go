package service

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/repo"
)

// ProjectCatalog is what the aggregator needs from the registry: resolving
// a filter reference and looking up rates and currencies in bulk.
type ProjectCatalog interface {
	ProjectResolver
	ByIDs(ctx context.Context, ids []int64) (map[int64]domain.Project, error)
}

// compile-time check: ProjectService must satisfy ProjectCatalog.
var _ ProjectCatalog = (*ProjectService)(nil)

// ReportService builds timesheets and reports. It only reads.
type ReportService struct {
	projects ProjectCatalog
	entries  repo.EntryRepo
	loc      *time.Location
	now      Clock
}

// NewReportService constructs a ReportService. Days are attributed in loc
// (nil means UTC); a nil clock means time.Now.
func NewReportService(projects ProjectCatalog, entries repo.EntryRepo, loc *time.Location, now Clock) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{projects: projects, entries: entries, loc: loc, now: now.orDefault()}
}

// Timesheet groups the entries starting inside spec by local calendar day.
// Days without entries are omitted. Money is reported per currency.
// Returns domain.ErrNotFound (via domain.ErrProjectNotFound) when
// projectFilter does not resolve.
func (s *ReportService) Timesheet(ctx context.Context, spec domain.RangeSpec, projectFilter *domain.Reference) (domain.Timesheet, error) {
	r, err := domain.ResolveRange(spec, s.now(), s.loc)
	if err != nil {
		return domain.Timesheet{}, fmt.Errorf("service.ReportService.Timesheet: %w", err)
	}

	sheet := domain.Timesheet{Range: r, Days: []domain.TimesheetDay{}, Amounts: []domain.Money{}}

	var projectID *int64
	if projectFilter != nil {
		p, err := s.projects.ResolveOne(ctx, *projectFilter)
		if err != nil {
			return domain.Timesheet{}, fmt.Errorf("service.ReportService.Timesheet: %w", err)
		}
		projectID = &p.ID
		sheet.ProjectID = projectID
	}

	entries, projects, err := s.load(ctx, r, projectID)
	if err != nil {
		return domain.Timesheet{}, fmt.Errorf("service.ReportService.Timesheet: %w", err)
	}

	sheetTally := domain.Tally{}
	var (
		day      *domain.TimesheetDay
		dayTally domain.Tally
	)
	closeDay := func() {
		if day == nil {
			return
		}
		day.TotalHours = domain.Hours(day.TotalMinutes)
		day.BillableHours = domain.Hours(day.BillableMinutes)
		day.Amounts = dayTally.Totals()
		sheet.Days = append(sheet.Days, *day)
	}

	for _, e := range entries {
		date := domain.Day(e.StartTime, s.loc)
		if day == nil || !day.Date.Equal(date) {
			closeDay()
			day = &domain.TimesheetDay{Date: date}
			dayTally = domain.Tally{}
		}

		day.Entries = append(day.Entries, e)
		day.TotalMinutes += e.DurationMinutes
		sheet.TotalMinutes += e.DurationMinutes
		if !e.Billable {
			continue
		}
		p := projects[e.ProjectID]
		amount := domain.Earn(e.DurationMinutes, p.Rate())
		day.BillableMinutes += e.DurationMinutes
		sheet.BillableMinutes += e.DurationMinutes
		dayTally.Add(p.Currency, amount)
		sheetTally.Add(p.Currency, amount)
	}
	closeDay()

	sheet.TotalHours = domain.Hours(sheet.TotalMinutes)
	sheet.BillableHours = domain.Hours(sheet.BillableMinutes)
	sheet.Amounts = sheetTally.Totals()
	return sheet, nil
}

// Report summarises spec per project and per ISO week.
// A range with no entries yields an empty report, not an error.
func (s *ReportService) Report(ctx context.Context, spec domain.RangeSpec) (domain.Report, error) {
	r, err := domain.ResolveRange(spec, s.now(), s.loc)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Report: %w", err)
	}

	entries, projects, err := s.load(ctx, r, nil)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Report: %w", err)
	}

	summaries := map[int64]*domain.ProjectSummary{}
	weeks := map[string]*domain.WeekBucket{}
	totals := domain.ReportTotals{Earnings: []domain.Money{}}

	for _, e := range entries {
		sum, ok := summaries[e.ProjectID]
		if !ok {
			p := projects[e.ProjectID]
			sum = &domain.ProjectSummary{
				ProjectID:  p.ID,
				Name:       p.Name,
				Client:     p.Client,
				Currency:   p.Currency,
				HourlyRate: p.HourlyRate,
			}
			summaries[e.ProjectID] = sum
		}

		monday := domain.WeekStart(domain.Day(e.StartTime, s.loc))
		wk, ok := weeks[monday.Format(time.DateOnly)]
		if !ok {
			wk = &domain.WeekBucket{}
			weeks[monday.Format(time.DateOnly)] = wk
		}

		sum.EntryCount++
		sum.TotalMinutes += e.DurationMinutes
		wk.TotalMinutes += e.DurationMinutes
		totals.TotalMinutes += e.DurationMinutes
		if e.Billable {
			sum.BillableMinutes += e.DurationMinutes
			wk.BillableMinutes += e.DurationMinutes
			totals.BillableMinutes += e.DurationMinutes
		}
	}

	earnings := domain.Tally{}
	out := make([]domain.ProjectSummary, 0, len(summaries))
	for _, sum := range summaries {
		raw := domain.Earn(sum.BillableMinutes, projects[sum.ProjectID].Rate())
		sum.Earnings = raw.Amount()
		sum.TotalHours = domain.Hours(sum.TotalMinutes)
		sum.BillableHours = domain.Hours(sum.BillableMinutes)
		earnings.Add(sum.Currency, raw)
		out = append(out, *sum)
	}
	slices.SortFunc(out, func(a, b domain.ProjectSummary) int {
		return cmp.Or(
			cmp.Compare(b.TotalMinutes, a.TotalMinutes),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ProjectID, b.ProjectID),
		)
	})

	totals.EntryCount = len(entries)
	totals.TotalHours = domain.Hours(totals.TotalMinutes)
	totals.BillableHours = domain.Hours(totals.BillableMinutes)
	totals.Earnings = earnings.Totals()

	report := domain.Report{
		Range:    r,
		Projects: out,
		Totals:   totals,
		Weeks:    weekTrend(r, weeks, len(entries) > 0),
	}
	report.Totals.AverageWeeklyHours = averageWeeklyHours(report.Weeks)
	return report, nil
}

// weekTrend yields one bucket per ISO week intersecting r, in order. Buckets
// are materialised only as the caller pulls them.
func weekTrend(r domain.DateRange, minutes map[string]*domain.WeekBucket, nonEmpty bool) iter.Seq[domain.WeekBucket] {
	return func(yield func(domain.WeekBucket) bool) {
		if !nonEmpty {
			return
		}
		for monday := domain.WeekStart(r.Start); !monday.After(r.End); monday = monday.AddDate(0, 0, 7) {
			b := domain.WeekBucket{Start: monday, End: monday.AddDate(0, 0, 6)}
			b.Year, b.Week = monday.ISOWeek()
			if m, ok := minutes[monday.Format(time.DateOnly)]; ok {
				b.TotalMinutes, b.BillableMinutes = m.TotalMinutes, m.BillableMinutes
			}
			b.TotalHours = domain.Hours(b.TotalMinutes)
			b.BillableHours = domain.Hours(b.BillableMinutes)
			if !yield(b) {
				return
			}
		}
	}
}

// averageWeeklyHours is the mean of total hours across the trend, 0 when
// there are no weeks.
func averageWeeklyHours(weeks iter.Seq[domain.WeekBucket]) float64 {
	var hours stats.Float64Data
	for w := range weeks {
		hours = append(hours, float64(w.TotalMinutes)/60.0)
	}
	if len(hours) == 0 {
		return 0
	}
	mean, err := hours.Mean()
	if err != nil {
		return 0
	}
	return domain.RoundHours(mean)
}

// load fetches the entries starting inside r, oldest first, and the
// projects they reference.
func (s *ReportService) load(ctx context.Context, r domain.DateRange, projectID *int64) ([]domain.TimeEntry, map[int64]domain.Project, error) {
	from, to := r.From(), r.Until()
	entries, err := s.entries.List(ctx, domain.EntryFilter{ProjectID: projectID, From: &from, To: &to})
	if err != nil {
		return nil, nil, err
	}

	// The ledger lists most recent first; aggregation walks forwards.
	slices.SortStableFunc(entries, func(a, b domain.TimeEntry) int {
		return a.StartTime.Compare(b.StartTime)
	})

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProjectID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	projects, err := s.projects.ByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		if _, ok := projects[id]; !ok {
			return nil, nil, fmt.Errorf("%w: project %d referenced by entries is missing", domain.ErrStorage, id)
		}
	}
	return entries, projects, nil
}
