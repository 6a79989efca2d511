package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alexanderramin/loadboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferService_ExportCompactsIDs(t *testing.T) {
	svc, database := setupServices(t)
	seedScenario(t, database)
	seedTask(t, database, 7, testutil.NewTestTask("A", "B", "Fall", 5))

	var buf bytes.Buffer
	res, err := svc.Transfer.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Roles)
	assert.Equal(t, 2, res.Tasks)
	assert.Equal(t, map[int]int{1: 0, 7: 1}, res.Renumbered)

	out := buf.String()
	assert.Contains(t, out, `"0": {`)
	assert.Contains(t, out, `"1": {`)
	assert.NotContains(t, out, `"7": {`)
	assert.Contains(t, out, "\n    \"roles\": {", "four-space indent")

	assert.Equal(t, []int{0, 1}, snapshotOf(t, database).TaskIDs(), "compaction is persisted")
}

func TestTransferService_RoundTripIsFixedPoint(t *testing.T) {
	svc, database := setupServices(t)
	ctx := context.Background()
	seedTwoPeriodBoard(t, database)

	var first bytes.Buffer
	_, err := svc.Transfer.Export(ctx, &first)
	require.NoError(t, err)

	other, _ := setupServices(t)
	_, err = other.Transfer.Import(ctx, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	_, err = other.Transfer.Export(ctx, &second)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestTransferService_ImportReplacesEverything(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)

	payload := `{"roles": {"X": {"type": "senior", "name": "Xavier", "target": {"Winter": 10}}}, "tasks": {}}`
	res, err := svc.Transfer.Import(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Roles)
	assert.Equal(t, 0, res.Tasks)

	snap := snapshotOf(t, database)
	assert.Len(t, snap.Roles, 1)
	assert.Empty(t, snap.Tasks)
}

func TestTransferService_ImportReportsDanglingRefs(t *testing.T) {
	svc, database := setupServices(t)

	payload := `{
		"roles": {"A": {"type": "senior", "name": "Ada", "target": {"Fall": 100}}},
		"tasks": {"3": {"roles": {"senior": "A", "course": "ghost"}, "period": "Fall", "value": 40}}
	}`
	res, err := svc.Transfer.Import(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{3: {"ghost"}}, res.Dangling)
	assert.Len(t, snapshotOf(t, database).Tasks, 1, "the task is kept")
}

func TestTransferService_ImportSkipsRolesWithoutTarget(t *testing.T) {
	svc, database := setupServices(t)

	payload := `{
		"roles": {
			"A": {"type": "senior", "name": "Ada", "target": {"Fall": 100}},
			"Z": {"type": "course", "name": "Zoology", "target": {}}
		},
		"tasks": {"1": {"roles": {"senior": "A", "course": "Z"}, "period": "Fall", "value": 40}}
	}`
	res, err := svc.Transfer.Import(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Roles)
	assert.Equal(t, []string{"Z"}, res.Untargeted)
	assert.Equal(t, map[int][]string{1: {"Z"}}, res.Dangling)

	snap := snapshotOf(t, database)
	assert.NotContains(t, snap.Roles, "Z")
	assert.Len(t, snap.Tasks, 1)
}

func TestTransferService_MalformedImportLeavesStoreUntouched(t *testing.T) {
	svc, database := setupServices(t)
	seedTwoPeriodBoard(t, database)
	before := snapshotOf(t, database)

	_, err := svc.Transfer.Import(context.Background(), strings.NewReader(`{"roles": {`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")

	_, err = svc.Transfer.Import(context.Background(), strings.NewReader(`{"roles": {}, "tasks": {"x": {}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed")

	assert.Equal(t, before, snapshotOf(t, database))
}

func TestTransferService_ImportRollsBackPartialWrite(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedTwoPeriodBoard(t, database)
	before := snapshotOf(t, database)

	// Write #1 clears the store, #2 writes the first role. Fail on #3.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 3,
		Err:    fmt.Errorf("injected write failure"),
	}
	svc := NewWithUoW(database, failUoW, testConfig())

	payload := `{
		"roles": {
			"X": {"type": "senior", "name": "Xavier", "target": {"Winter": 10}},
			"Y": {"type": "course", "name": "Yoga", "target": {"Winter": 10}}
		},
		"tasks": {"1": {"roles": {"senior": "X", "course": "Y"}, "period": "Winter", "value": 5}}
	}`
	_, err := svc.Transfer.Import(context.Background(), strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected write failure")
	assert.Equal(t, before, snapshotOf(t, database), "a failed import leaves the old board intact")
}

func TestTransferService_Compact(t *testing.T) {
	svc, database := setupServices(t)
	seedTask(t, database, 4, testutil.NewTestTask("a", "b", "Fall", 1))
	seedTask(t, database, 9, testutil.NewTestTask("a", "b", "Fall", 2))

	moved, err := svc.Transfer.Compact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]int{4: 0, 9: 1}, moved)
}
