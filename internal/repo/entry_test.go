package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timeledger/internal/domain"
	"github.com/pkordes/timeledger/internal/repo"
	"github.com/pkordes/timeledger/testutil"
)

type ledgerRepos struct {
	projects repo.ProjectRepo
	entries  repo.EntryRepo
	timers   repo.TimerRepo
	project  domain.Project
}

// newLedgerRepos wires all repos onto one rolled-back transaction and
// creates a project to hang entries off.
func newLedgerRepos(t *testing.T) ledgerRepos {
	t.Helper()
	tx := testutil.NewTx(t)

	r := ledgerRepos{
		projects: repo.NewProjectRepo(tx),
		entries:  repo.NewEntryRepo(tx),
		timers:   repo.NewTimerRepo(tx),
	}
	p, err := r.projects.Create(context.Background(), projectFixture())
	require.NoError(t, err)
	r.project = p
	return r
}

func entryFixture(projectID int64, start time.Time, minutes int) domain.TimeEntry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return domain.TimeEntry{
		ID:              uuid.New(),
		ProjectID:       projectID,
		Description:     "wireframes",
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		Billable:        true,
		Tags:            []string{"design"},
	}
}

// base is far in the past so list filters don't pick up other data.
var base = time.Date(1999, 3, 1, 9, 0, 0, 0, time.UTC)

func TestEntryRepo_CreateAndGet(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	input := entryFixture(r.project.ID, base, 30)
	created, err := r.entries.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, input.ID, created.ID)
	assert.Equal(t, 30, created.DurationMinutes)
	assert.Equal(t, []string{"design"}, created.Tags)
	assert.True(t, created.StartTime.Equal(base))

	got, err := r.entries.GetByID(ctx, input.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestEntryRepo_Create_RejectsNonPositiveInterval(t *testing.T) {
	r := newLedgerRepos(t)

	e := entryFixture(r.project.ID, base, 0)

	_, err := r.entries.Create(context.Background(), e)

	// The CHECK constraint is a last line of defence behind service validation.
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestEntryRepo_List_Filters(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	other, err := r.projects.Create(ctx, projectFixture())
	require.NoError(t, err)

	e1 := entryFixture(r.project.ID, base, 60)
	e2 := entryFixture(r.project.ID, base.Add(24*time.Hour), 30)
	e2.Billable = false
	e3 := entryFixture(other.ID, base.Add(48*time.Hour), 15)
	for _, e := range []domain.TimeEntry{e1, e2, e3} {
		_, err := r.entries.Create(ctx, e)
		require.NoError(t, err)
	}

	from, to := base, base.Add(72*time.Hour)

	all, err := r.entries.List(ctx, domain.EntryFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, e3.ID, all[0].ID, "most recent first")
	assert.Equal(t, e1.ID, all[2].ID)

	byProject, err := r.entries.List(ctx, domain.EntryFilter{ProjectID: &r.project.ID, From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	billable, err := r.entries.List(ctx, domain.EntryFilter{ProjectID: &r.project.ID, From: &from, To: &to, BillableOnly: true})
	require.NoError(t, err)
	require.Len(t, billable, 1)
	assert.Equal(t, e1.ID, billable[0].ID)

	// To is exclusive: an entry starting exactly at To is left out.
	edge := base.Add(48 * time.Hour)
	upToEdge, err := r.entries.List(ctx, domain.EntryFilter{From: &from, To: &edge})
	require.NoError(t, err)
	assert.Len(t, upToEdge, 2)
}

func TestEntryRepo_Delete(t *testing.T) {
	r := newLedgerRepos(t)
	ctx := context.Background()

	e, err := r.entries.Create(ctx, entryFixture(r.project.ID, base, 30))
	require.NoError(t, err)

	require.NoError(t, r.entries.Delete(ctx, e.ID))

	// Not idempotent: the second delete reports the entry missing.
	assert.ErrorIs(t, r.entries.Delete(ctx, e.ID), domain.ErrNotFound)

	_, err = r.entries.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
