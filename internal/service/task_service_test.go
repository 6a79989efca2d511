package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
	"github.com/alexanderramin/loadboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_ScenarioLoads(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedScenario(t, database)

	a, err := svc.Tasks.LoadFor(ctx, "A", "Fall")
	require.NoError(t, err)
	assert.Equal(t, 40, a.Percent)
	assert.Equal(t, "–60", a.DeviationText())

	b, err := svc.Tasks.LoadFor(ctx, "B", "Fall")
	require.NoError(t, err)
	assert.Equal(t, 80, b.Percent)
	assert.Equal(t, "–10", b.DeviationText())
}

func TestTaskService_LoadTracksMutations(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedScenario(t, database)
	seedRole(t, database, "A2", testutil.NewTestRole("senior", "Alan", testutil.WithTarget("Fall", 0)))

	id, err := svc.Tasks.Add(ctx, testutil.NewTestTask("A", "B", "Fall", 25))
	require.NoError(t, err)
	_, err = svc.Tasks.Add(ctx, testutil.NewTestTask("A", "B", "Spring", 999))
	require.NoError(t, err)

	a, err := svc.Tasks.LoadFor(ctx, "A", "Fall")
	require.NoError(t, err)
	assert.Equal(t, 65, a.Percent, "round(100*65/100)")

	moved, err := svc.Tasks.Move(ctx, id, "senior", "A2")
	require.NoError(t, err)
	assert.True(t, moved)

	a, err = svc.Tasks.LoadFor(ctx, "A", "Fall")
	require.NoError(t, err)
	assert.Equal(t, 40, a.Percent)

	a2, err := svc.Tasks.LoadFor(ctx, "A2", "Fall")
	require.NoError(t, err)
	assert.Equal(t, 25.0, a2.Used)
	assert.Equal(t, 0, a2.Percent, "zero target gives zero percent")
	assert.Equal(t, "+25", a2.DeviationText())

	b, err := svc.Tasks.LoadFor(ctx, "B", "Fall")
	require.NoError(t, err)
	assert.Equal(t, 130, b.Percent, "overflow past 100 is kept")
}

func TestTaskService_DraftUsesOtherRoleDefault(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedRole(t, database, "p", testutil.NewTestRole("junior", "Pat", testutil.WithGroup("phdstudent"), testutil.WithTarget("Fall", 1)))
	seedRole(t, database, "c", testutil.NewTestRole("course", "Chem", testutil.WithTarget("Fall", 1)))

	fromCourse, err := svc.Tasks.Draft(ctx, "Fall", "c", "p")
	require.NoError(t, err)
	assert.Equal(t, 100.0, fromCourse.Value, "phdstudent group default")
	assert.Equal(t, map[string]string{"course": "c", "junior": "p"}, fromCourse.Roles)

	fromPerson, err := svc.Tasks.Draft(ctx, "Fall", "p", "c")
	require.NoError(t, err)
	assert.Equal(t, 80.0, fromPerson.Value, "course type default")

	_, err = svc.Tasks.Draft(ctx, "Fall", "c", "c")
	assert.ErrorIs(t, err, domain.ErrInvalidTask)
}

func TestTaskService_AddValidates(t *testing.T) {
	svc, _ := setupServices(t)
	ctx := context.Background()

	single := &domain.Task{Roles: map[string]string{"senior": "a"}, Period: "Fall", Value: 1}
	_, err := svc.Tasks.Add(ctx, single)
	assert.ErrorIs(t, err, domain.ErrInvalidTask)

	unknownAxis := testutil.NewTestTask("a", "b", "Fall", 1, testutil.WithAxis("room", "r1"))
	_, err = svc.Tasks.Add(ctx, unknownAxis)
	assert.ErrorIs(t, err, domain.ErrInvalidTask)

	threeAxes := testutil.NewTestTask("a", "b", "Fall", 1, testutil.WithAxis("junior", "j"))
	id, err := svc.Tasks.Add(ctx, threeAxes)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestTaskService_UpdateSkipsUnchanged(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedScenario(t, database)

	changed, err := svc.Tasks.Update(ctx, 1, testutil.NewTestTask("A", "B", "Fall", 40))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.Tasks.Update(ctx, 1, testutil.NewTestTask("A", "B", "Fall", 40, testutil.WithTaskComments("lab")))
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := svc.Tasks.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "lab", domain.StrValue(got.Comments))

	_, err = svc.Tasks.Update(ctx, 9, testutil.NewTestTask("A", "B", "Fall", 40))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskService_UpdateChecksAxisTypes(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedScenario(t, database)
	seedRole(t, database, "C", testutil.NewTestRole("course", "Chem", testutil.WithTarget("Fall", 60)))

	_, err := svc.Tasks.Update(ctx, 1, testutil.NewTestTask("C", "B", "Fall", 40))
	assert.ErrorIs(t, err, domain.ErrCrossTypeMove)

	_, err = svc.Tasks.Update(ctx, 1, testutil.NewTestTask("A", "gone", "Fall", 40))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := svc.Tasks.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"senior": "A", "course": "B"}, got.Roles)

	changed, err := svc.Tasks.Update(ctx, 1, testutil.NewTestTask("A", "C", "Fall", 40))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTaskService_UpdateKeepsDanglingReference(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedRole(t, database, "A", testutil.NewTestRole("senior", "Ada", testutil.WithTarget("Fall", 100)))
	seedTask(t, database, 1, testutil.NewTestTask("A", "gone", "Fall", 40))

	changed, err := svc.Tasks.Update(ctx, 1, testutil.NewTestTask("A", "gone", "Fall", 25))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestTaskService_MoveRejectsCrossType(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedScenario(t, database)
	before := snapshotOf(t, database)

	_, err := svc.Tasks.Move(ctx, 1, "senior", "B")
	assert.ErrorIs(t, err, domain.ErrCrossTypeMove)

	_, err = svc.Tasks.Move(ctx, 1, "junior", "A")
	assert.ErrorIs(t, err, domain.ErrCrossTypeMove)

	moved, err := svc.Tasks.Move(ctx, 1, "senior", "A")
	require.NoError(t, err)
	assert.False(t, moved, "dropping onto the source role is a no-op")

	assert.Equal(t, before, snapshotOf(t, database))
}

func TestTaskService_SetValue(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedScenario(t, database)

	changed, err := svc.Tasks.SetValue(ctx, 1, 40)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = svc.Tasks.SetValue(ctx, 1, 60)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = svc.Tasks.SetValue(ctx, 1, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidTask)

	got, err := svc.Tasks.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Value)
}

func TestTaskService_ListByPeriod(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedTask(t, database, 5, testutil.NewTestTask("a", "b", "Fall", 1))
	seedTask(t, database, 2, testutil.NewTestTask("a", "b", "Spring", 1))
	seedTask(t, database, 3, testutil.NewTestTask("a", "b", "Fall", 1))

	fall, err := svc.Tasks.List(ctx, "Fall")
	require.NoError(t, err)
	require.Len(t, fall, 2)
	assert.Equal(t, 3, fall[0].ID)
	assert.Equal(t, 5, fall[1].ID)
}
