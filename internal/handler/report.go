package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/timeledger/internal/domain"
)

// RangeResponse renders a resolved DateRange as two calendar dates.
type RangeResponse struct {
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
}

// TimesheetResponse is the JSON body of GET /timesheet.
type TimesheetResponse struct {
	domain.Timesheet
	Range RangeResponse          `json:"range"`
	Days  []TimesheetDayResponse `json:"days"`
}

// TimesheetDayResponse is one day of a timesheet with its date as YYYY-MM-DD.
type TimesheetDayResponse struct {
	domain.TimesheetDay
	Date openapi_types.Date `json:"date"`
}

// ReportResponse is the body of GET /report. The weekly trend is
// materialised here; the service yields it lazily.
type ReportResponse struct {
	Range    RangeResponse           `json:"range"`
	Projects []domain.ProjectSummary `json:"projects"`
	Totals   domain.ReportTotals     `json:"totals"`
	Weeks    []WeekResponse          `json:"weeks"`
}

// WeekResponse is one ISO week of the trend.
type WeekResponse struct {
	domain.WeekBucket
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
}

// GetTimesheet handles GET /timesheet.
// Supports ?range= or ?start=&end=, ?project=, and ?format=csv.
func (s *Server) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	spec, err := bindRange(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := bindReference(q, "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var format *string
	if err := queryParam(q, "format", &format); err != nil {
		writeError(w, r, err)
		return
	}

	sheet, err := s.reports.Timesheet(r.Context(), spec, project)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format != nil && *format == "csv" {
		s.writeTimesheetCSV(w, r, sheet)
		return
	}
	writeJSON(w, http.StatusOK, timesheetToResponse(sheet))
}

// GetReport handles GET /report. Supports ?range= or ?start=&end=.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	spec, err := bindRange(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := s.reports.Report(r.Context(), spec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reportToResponse(report))
}

// --- mapping helpers --------------------------------------------------------

func rangeToResponse(r domain.DateRange) RangeResponse {
	return RangeResponse{Start: toDate(r.Start), End: toDate(r.End)}
}

func timesheetToResponse(sheet domain.Timesheet) TimesheetResponse {
	days := make([]TimesheetDayResponse, len(sheet.Days))
	for i, d := range sheet.Days {
		days[i] = TimesheetDayResponse{TimesheetDay: d, Date: toDate(d.Date)}
	}
	return TimesheetResponse{Timesheet: sheet, Range: rangeToResponse(sheet.Range), Days: days}
}

// reportToResponse drains the weekly sequence. An empty report yields no weeks
// and renders as an empty array.
func reportToResponse(rep domain.Report) ReportResponse {
	weeks := []WeekResponse{}
	if rep.Weeks != nil {
		for b := range rep.Weeks {
			weeks = append(weeks, WeekResponse{WeekBucket: b, Start: toDate(b.Start), End: toDate(b.End)})
		}
	}
	return ReportResponse{
		Range:    rangeToResponse(rep.Range),
		Projects: rep.Projects,
		Totals:   rep.Totals,
		Weeks:    weeks,
	}
}
