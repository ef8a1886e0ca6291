package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind tells ById and ByName references apart.
type RefKind int

const (
	RefByID RefKind = iota + 1
	RefByName
)

// Reference identifies a project either by primary key or by name.
// The zero value is not a valid reference; build one with ByID, ByName or
// ParseReference.
type Reference struct {
	Kind RefKind
	ID   int64
	Name string
}

// ByID returns a reference to the project with the given primary key.
func ByID(id int64) Reference { return Reference{Kind: RefByID, ID: id} }

// ByName returns a reference matched case-insensitively against project names.
func ByName(name string) Reference { return Reference{Kind: RefByName, Name: strings.TrimSpace(name)} }

// ParseReference interprets raw caller input. Strings made only of decimal
// digits are ids; anything else is a name.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, fmt.Errorf("%w: project reference is required", ErrValidation)
	}
	if isDigits(raw) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return ByID(id), nil
		}
	}
	return ByName(raw), nil
}

// String renders the reference the way a user would have typed it.
func (r Reference) String() string {
	if r.Kind == RefByID {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Name
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Resolution is the outcome of looking up a Reference: exactly one of
// Found, NotFound or Ambiguous describes it.
type Resolution struct {
	Ref        Reference
	Candidates []Project
}

// Found reports whether exactly one project matched.
func (r Resolution) Found() bool { return len(r.Candidates) == 1 }

// NotFound reports whether nothing matched.
func (r Resolution) NotFound() bool { return len(r.Candidates) == 0 }

// Ambiguous reports whether more than one project matched.
func (r Resolution) Ambiguous() bool { return len(r.Candidates) > 1 }

// Project returns the single match and nil, or the typed error describing
// why there is no single match.
func (r Resolution) Project() (Project, error) {
	switch {
	case r.Found():
		return r.Candidates[0], nil
	case r.NotFound():
		return Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, r.Ref.String())
	default:
		return Project{}, &AmbiguousReferenceError{Ref: r.Ref.String(), Candidates: r.Candidates}
	}
}
