package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
	"github.com/alexanderramin/loadboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTwoPeriodBoard stores a board spanning Fall and Spring.
//
//	A: senior, Fall 100, Spring 90
//	B: course, Fall 50
//	C: course, Spring 30
//	tasks: 1 A/B Fall 40, 2 A/B Fall 10, 3 A/C Spring 20
func seedTwoPeriodBoard(t *testing.T, database *sql.DB) {
	t.Helper()
	seedRole(t, database, "A", testutil.NewTestRole("senior", "Ada",
		testutil.WithTarget("Fall", 100), testutil.WithTarget("Spring", 90)))
	seedRole(t, database, "B", testutil.NewTestRole("course", "Biology", testutil.WithTarget("Fall", 50)))
	seedRole(t, database, "C", testutil.NewTestRole("course", "Chemistry", testutil.WithTarget("Spring", 30)))
	seedTask(t, database, 1, testutil.NewTestTask("A", "B", "Fall", 40))
	seedTask(t, database, 2, testutil.NewTestTask("A", "B", "Fall", 10))
	seedTask(t, database, 3, testutil.NewTestTask("A", "C", "Spring", 20))
}

func tasksIn(snap *domain.Snapshot, period string) []domain.Task {
	var out []domain.Task
	for _, id := range snap.TaskIDs() {
		if snap.Tasks[id].Period == period {
			out = append(out, snap.Tasks[id])
		}
	}
	return out
}

func rolesWith(snap *domain.Snapshot, period string) []string {
	var out []string
	for _, id := range repository.SortRoleIDs(snap.Roles) {
		r := snap.Roles[id]
		if r.HasPeriod(period) {
			out = append(out, id)
		}
	}
	return out
}

func TestPeriodService_List(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	periods, err := svc.Periods.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring", "Fall"}, periods, "reverse lexicographic")
}

func TestPeriodService_RenameMovesRolesAndTasks(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	require.NoError(t, svc.Periods.Rename(context.Background(), "Fall", "Autumn"))

	snap := snapshotOf(t, database)
	assert.Empty(t, rolesWith(snap, "Fall"))
	assert.Empty(t, tasksIn(snap, "Fall"))
	assert.Equal(t, []string{"A", "B"}, rolesWith(snap, "Autumn"))
	assert.Len(t, tasksIn(snap, "Autumn"), 2)
	assert.Equal(t, 100.0, snap.Roles["A"].Target["Autumn"])
	assert.Equal(t, 90.0, snap.Roles["A"].Target["Spring"], "other periods untouched")
}

func TestPeriodService_RenameToExistingIsRejected(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)
	before := snapshotOf(t, database)

	err := svc.Periods.Rename(context.Background(), "Fall", "Spring")
	require.ErrorIs(t, err, domain.ErrDuplicatePeriod)
	assert.Equal(t, before, snapshotOf(t, database))

	err = svc.Periods.Rename(context.Background(), "Fall", "Fall")
	assert.ErrorIs(t, err, domain.ErrDuplicatePeriod)
}

func TestPeriodService_RenameUnknown(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	err := svc.Periods.Rename(context.Background(), "Winter", "Summer")
	assert.ErrorIs(t, err, domain.ErrUnknownPeriod)
}

func TestPeriodService_CreateWithoutRolesOnlyValidates(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedTwoPeriodBoard(t, database)
	before := snapshotOf(t, database)

	require.NoError(t, svc.Periods.Create(ctx, "Summer"))
	assert.Equal(t, before, snapshotOf(t, database))

	assert.ErrorIs(t, svc.Periods.Create(ctx, "Fall"), domain.ErrDuplicatePeriod)
	assert.Error(t, svc.Periods.Create(ctx, "  "))
}

func TestPeriodService_CreateWithRoles(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedTwoPeriodBoard(t, database)

	require.NoError(t, svc.Periods.Create(ctx, "Summer", "A", "B"))

	snap := snapshotOf(t, database)
	assert.Equal(t, []string{"A", "B"}, rolesWith(snap, "Summer"))
	assert.Equal(t, 500.0, snap.Roles["B"].Target["Summer"], "course default target")

	periods, err := svc.Periods.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer", "Spring", "Fall"}, periods)
}

func TestPeriodService_CloneReplacesDestination(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	res, err := svc.Periods.Clone(context.Background(), "Fall", "Spring")
	require.NoError(t, err)
	assert.Equal(t, &CloneResult{Roles: 2, Tasks: 2, Replaced: 1}, res)

	snap := snapshotOf(t, database)
	assert.Equal(t, rolesWith(snap, "Fall"), rolesWith(snap, "Spring"))
	assert.Equal(t, 100.0, snap.Roles["A"].Target["Spring"], "from value overwrites to value")
	_, cExists := snap.Roles["C"]
	assert.False(t, cExists, "C only had Spring and lacks Fall, so it is removed")

	fall := tasksIn(snap, "Fall")
	spring := tasksIn(snap, "Spring")
	require.Len(t, spring, len(fall))
	for i := range fall {
		assert.Equal(t, fall[i].Value, spring[i].Value)
		assert.Equal(t, fall[i].Roles, spring[i].Roles)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, snap.TaskIDs(), "duplicates get fresh ids")
}

func TestPeriodService_CloneIntoNewPeriod(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	res, err := svc.Periods.Clone(context.Background(), "Spring", "Summer")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Replaced)

	snap := snapshotOf(t, database)
	assert.Equal(t, []string{"A", "C"}, rolesWith(snap, "Summer"))
	assert.Len(t, tasksIn(snap, "Summer"), 1)
	assert.Len(t, tasksIn(snap, "Spring"), 1, "source untouched")
}

func TestPeriodService_CloneErrors(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedTwoPeriodBoard(t, database)

	_, err := svc.Periods.Clone(ctx, "Winter", "Summer")
	assert.ErrorIs(t, err, domain.ErrUnknownPeriod)

	_, err = svc.Periods.Clone(ctx, "Fall", "Fall")
	assert.Error(t, err)
}

func TestPeriodService_CloneRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTwoPeriodBoard(t, database)
	before := snapshotOf(t, database)

	// Writes in order: role A, role B, role C (delete), task 3 delete,
	// then the two copies. Fail on the first copy.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 5,
		Err:    fmt.Errorf("injected task copy failure"),
	}
	svc := NewWithUoW(database, failUoW, testConfig())

	_, err := svc.Periods.Clone(context.Background(), "Fall", "Spring")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task copy failure")
	assert.Equal(t, before, snapshotOf(t, database), "clone is all or nothing")
}

func TestPeriodService_DeleteRemovesTasksAndEmptyRoles(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	res, err := svc.Periods.Delete(context.Background(), "Fall")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Roles)
	assert.Equal(t, []string{"B"}, res.DeletedRoles)
	assert.Equal(t, 2, res.Tasks)

	snap := snapshotOf(t, database)
	assert.Empty(t, tasksIn(snap, "Fall"))
	assert.Empty(t, rolesWith(snap, "Fall"))
	assert.Equal(t, map[string]float64{"Spring": 90}, snap.Roles["A"].Target)
	assert.Equal(t, []int{3}, snap.TaskIDs())
}

func TestPeriodService_DeleteUnknown(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	_, err := svc.Periods.Delete(context.Background(), "Winter")
	assert.ErrorIs(t, err, domain.ErrUnknownPeriod)
}

func TestPeriodService_DeleteDropsPeriodFromList(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTwoPeriodBoard(t, database)
	svc := NewWithUoW(database, db.NewSQLiteUnitOfWork(database), testConfig())

	_, err := svc.Periods.Delete(context.Background(), "Spring")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fall"}, mustPeriods(t, svc))
}

func mustPeriods(t *testing.T, svc *Services) []string {
	t.Helper()
	periods, err := svc.Periods.List(context.Background())
	require.NoError(t, err)
	return periods
}
