package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/timeledger/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"date", "entry_id", "project_id", "project", "client",
	"start_time", "end_time", "duration_minutes", "billable",
	"amount", "currency", "description", "tags",
}

// writeTimesheetCSV renders a timesheet for ?format=csv, one row per entry. Project names and rates come from
// the registry, archived projects included, in a single List call.
func (s *Server) writeTimesheetCSV(w http.ResponseWriter, r *http.Request, sheet domain.Timesheet) {
	projects, err := s.projects.List(r.Context(), domain.ProjectFilter{IncludeArchived: true})
	if err != nil {
		writeError(w, r, err)
		return
	}
	byID := make(map[int64]domain.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	body := buildTimesheetCSV(sheet, byID)
	filename := "timesheet-" + sheet.Range.Start.Format(time.DateOnly) + "-" + sheet.Range.End.Format(time.DateOnly) + ".csv"

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

// buildTimesheetCSV encodes the timesheet rows into a buffer.
// Tags within a row are pipe-separated ("|") to keep each entry on a single CSV line.
func buildTimesheetCSV(sheet domain.Timesheet, projects map[int64]domain.Project) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, day := range sheet.Days {
		for _, e := range day.Entries {
			//nolint:errcheck
			w.Write(entryToCSVRecord(day.Date, e, projects[e.ProjectID]))
		}
	}
	w.Flush()
	return &buf
}

// entryToCSVRecord encodes one entry as a flat string slice. Times are
// written in day's location, the zone the timesheet was grouped in.
// Non-billable entries have an empty amount.
func entryToCSVRecord(day time.Time, e domain.TimeEntry, p domain.Project) []string {
	loc := day.Location()
	amount := ""
	if e.Billable {
		amount = strconv.FormatFloat(domain.Earn(e.DurationMinutes, p.Rate()).Amount(), 'f', 2, 64)
	}
	return []string{
		day.Format(time.DateOnly),
		e.ID.String(),
		strconv.FormatInt(e.ProjectID, 10),
		p.Name,
		p.Client,
		e.StartTime.In(loc).Format(time.RFC3339),
		e.EndTime.In(loc).Format(time.RFC3339),
		strconv.Itoa(e.DurationMinutes),
		strconv.FormatBool(e.Billable),
		amount,
		p.Currency,
		e.Description,
		strings.Join(e.Tags, "|"),
	}
}
