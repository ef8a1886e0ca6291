package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrProjectNotFound is returned when a project reference resolves to nothing.
// It wraps ErrNotFound so callers that only care about "missing" can keep
// checking errors.Is(err, ErrNotFound).
var ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end time before start time).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidRange is returned when a date range ends before it starts.
var ErrInvalidRange = errors.New("invalid range")

// ErrAlreadyRunning is returned by Start when a timer is already persisted.
// The existing timer is never modified.
var ErrAlreadyRunning = errors.New("timer already running")

// ErrNotRunning is returned by Stop and Discard when no timer is persisted.
var ErrNotRunning = errors.New("timer not running")

// ErrAmbiguousReference is matched by *AmbiguousReferenceError.
var ErrAmbiguousReference = errors.New("ambiguous project reference")

// ErrStorage tags failures of the persistent store itself (connection lost,
// constraint the service did not anticipate, etc). The driver error is kept
// in the chain next to it and is never recovered internally.
var ErrStorage = errors.New("storage error")

// AmbiguousReferenceError is returned when a project name matches more than
// one project. Candidates holds every match so the caller can disambiguate.
type AmbiguousReferenceError struct {
	Ref        string
	Candidates []Project
}

func (e *AmbiguousReferenceError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, p := range e.Candidates {
		names[i] = fmt.Sprintf("%s (#%d)", p.Name, p.ID)
	}
	return fmt.Sprintf("%s: %q matches %s", ErrAmbiguousReference, e.Ref, strings.Join(names, ", "))
}

// Is reports whether target is ErrAmbiguousReference.
func (e *AmbiguousReferenceError) Is(target error) bool {
	return target == ErrAmbiguousReference
}
