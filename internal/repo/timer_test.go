package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timeledger/internal/domain"
)

func timerFixture(projectID int64) domain.ActiveTimer {
	return domain.ActiveTimer{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Description: "design",
		StartTime:   base,
		Tags:        []string{"client"},
	}
}

func TestTimerRepo_Get_NotRunning(t *testing.T) {
	r := newLedgerRepos(t)

	_, err := r.timers.Get(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotRunning)
}

func TestTimerRepo_CreateTwice_KeepsFirst(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	first := timerFixture(r.project.ID)
	_, err := r.timers.Create(ctx, first)
	require.NoError(t, err)

	second := timerFixture(r.project.ID)
	second.StartTime = base.Add(time.Hour)
	_, err = r.timers.Create(ctx, second)
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)

	got, err := r.timers.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.StartTime.Equal(first.StartTime), "original start time survives")
}

func TestTimerRepo_Stop_ConvertsToEntry(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	timer := timerFixture(r.project.ID)
	_, err := r.timers.Create(ctx, timer)
	require.NoError(t, err)

	end := base.Add(30 * time.Minute)
	entry, err := r.timers.Stop(ctx, func(t domain.ActiveTimer) (domain.TimeEntry, error) {
		return t.Entry(end), nil
	})

	require.NoError(t, err)
	assert.Equal(t, timer.ID, entry.ID)
	assert.Equal(t, 30, entry.DurationMinutes)
	assert.True(t, entry.Billable)
	assert.Equal(t, []string{"client"}, entry.Tags)

	_, err = r.timers.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotRunning, "timer row is gone")

	stored, err := r.entries.GetByID(ctx, timer.ID)
	require.NoError(t, err)
	assert.True(t, stored.EndTime.Equal(end))

	_, err = r.timers.Stop(ctx, func(t domain.ActiveTimer) (domain.TimeEntry, error) {
		return t.Entry(end), nil
	})
	assert.ErrorIs(t, err, domain.ErrNotRunning)
}

func TestTimerRepo_Stop_FinishErrorRollsBack(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	timer := timerFixture(r.project.ID)
	_, err := r.timers.Create(ctx, timer)
	require.NoError(t, err)

	boom := errors.New("clock went backwards")
	_, err = r.timers.Stop(ctx, func(domain.ActiveTimer) (domain.TimeEntry, error) {
		return domain.TimeEntry{}, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := r.timers.Get(ctx)
	require.NoError(t, err, "timer survives a failed stop")
	assert.Equal(t, timer.ID, got.ID)

	_, err = r.entries.GetByID(ctx, timer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTimerRepo_Discard(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	timer := timerFixture(r.project.ID)
	_, err := r.timers.Create(ctx, timer)
	require.NoError(t, err)

	discarded, err := r.timers.Discard(ctx)
	require.NoError(t, err)
	assert.Equal(t, timer.ID, discarded.ID)

	_, err = r.timers.Discard(ctx)
	assert.ErrorIs(t, err, domain.ErrNotRunning)

	_, err = r.entries.GetByID(ctx, timer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "discard records nothing")
}
