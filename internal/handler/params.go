package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/timeledger/internal/domain"
)

// Parameter binding goes through the oapi-codegen runtime so path and query
// values are parsed with OpenAPI "simple" and "form" styles. Binding
// failures are reported as domain.ErrValidation.

func invalidParam(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// pathParam binds the {name} path segment into dest.
func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return invalidParam(err)
	}
	return nil
}

func projectID(r *http.Request) (int64, error) {
	var id int64
	err := pathParam(r, "id", &id)
	return id, err
}

func entryID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := pathParam(r, "id", &id)
	return id, err
}

// queryParam binds an optional ?name= value into dest, which must be a
// pointer to a pointer so absence stays distinguishable from the zero value.
func queryParam(q url.Values, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		return invalidParam(err)
	}
	return nil
}

// rangeQuery is the ?range=|?start=&end= pair shared by entries, timesheet
// and report.
type rangeQuery struct {
	Range *string
	Start *openapi_types.Date
	End   *openapi_types.Date
}

func bindRange(q url.Values) (domain.RangeSpec, error) {
	var rq rangeQuery
	for name, dest := range map[string]any{"range": &rq.Range, "start": &rq.Start, "end": &rq.End} {
		if err := queryParam(q, name, dest); err != nil {
			return domain.RangeSpec{}, err
		}
	}

	var spec domain.RangeSpec
	if rq.Range != nil {
		spec.Preset = domain.Preset(*rq.Range)
	}
	spec.Start = dateTime(rq.Start)
	spec.End = dateTime(rq.End)
	return spec, nil
}

// bindReference parses an optional ?name= project reference.
func bindReference(q url.Values, name string) (*domain.Reference, error) {
	var raw *string
	if err := queryParam(q, name, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	ref, err := domain.ParseReference(*raw)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func dateTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func toDate(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}
