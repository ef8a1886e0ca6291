package service

import (
	"context"
	"errors"
	"time"

	"github.com/pkordes/timeledger/internal/domain"
)

// Clock returns the current time. Services take one so tests can pin "now";
// production passes time.Now.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// ProjectResolver turns a reference into exactly one project.
// *ProjectService satisfies it; the timer, ledger and report services
// depend on this interface so they can be tested without a registry.
type ProjectResolver interface {
	ResolveOne(ctx context.Context, ref domain.Reference) (domain.Project, error)
}

// compile-time check: ProjectService must satisfy ProjectResolver.
var _ ProjectResolver = (*ProjectService)(nil)

// dbTime truncates t to the microsecond precision Postgres stores, so the
// value a service returns equals the value read back later.
func dbTime(t time.Time) time.Time {
	return t.Truncate(time.Microsecond)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
