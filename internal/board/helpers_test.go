package board

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
	"github.com/alexanderramin/loadboard/internal/service"
	"github.com/alexanderramin/loadboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctrl     *Controller
	svc      *service.Services
	database *sql.DB
	cfg      config.Config
	logs     *bytes.Buffer
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.DBPath = ":memory:"
	return cfg
}

// newFixture opens an empty store, runs seed against it, then builds the
// controller.
func newFixture(t *testing.T, seed func(t *testing.T, database *sql.DB)) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	if seed != nil {
		seed(t, database)
	}
	cfg := testConfig()
	svc := service.New(database, db.SQLite, cfg)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctrl, err := New(context.Background(), svc, cfg, logger)
	require.NoError(t, err)
	return &fixture{ctrl: ctrl, svc: svc, database: database, cfg: cfg, logs: logs}
}

func (f *fixture) apply(t *testing.T, cmd Command) Result {
	t.Helper()
	res, err := f.ctrl.Apply(context.Background(), cmd)
	require.NoError(t, err)
	return res
}

func (f *fixture) snapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	snap, err := repository.NewSnapshotRepo(f.database).ExportAll(context.Background())
	require.NoError(t, err)
	return snap
}

func (f *fixture) card(t *testing.T, id string) *RoleCard {
	t.Helper()
	card := f.ctrl.View().Card(id)
	require.NotNil(t, card, "card %s", id)
	return card
}

func putRole(t *testing.T, database *sql.DB, id string, role *domain.Role) {
	t.Helper()
	require.NoError(t, repository.NewRoleRepo(database).Put(context.Background(), id, role))
}

func putTask(t *testing.T, database *sql.DB, id int, task *domain.Task) {
	t.Helper()
	require.NoError(t, repository.NewTaskRepo(database).Put(context.Background(), id, task))
}

// seedDragBoard stores two seniors and two courses in Fall:
//
//	A Ada     100: task 1 (B, 40), task 2 (C, 10)
//	D Dan      80: task 3 (B, 20)
//	B Biology  50
//	C Chem     60
func seedDragBoard(t *testing.T, database *sql.DB) {
	putRole(t, database, "A", testutil.NewTestRole("senior", "Ada", testutil.WithTarget("Fall", 100)))
	putRole(t, database, "D", testutil.NewTestRole("senior", "Dan", testutil.WithTarget("Fall", 80)))
	putRole(t, database, "B", testutil.NewTestRole("course", "Biology", testutil.WithTarget("Fall", 50)))
	putRole(t, database, "C", testutil.NewTestRole("course", "Chem", testutil.WithTarget("Fall", 60)))
	putTask(t, database, 1, testutil.NewTestTask("A", "B", "Fall", 40))
	putTask(t, database, 2, testutil.NewTestTask("A", "C", "Fall", 10))
	putTask(t, database, 3, testutil.NewTestTask("D", "B", "Fall", 20))
}

// seedPeriods stores role A in Fall and Spring and role B in Fall, with
// one task per period.
func seedPeriods(t *testing.T, database *sql.DB) {
	putRole(t, database, "A", testutil.NewTestRole("senior", "Ada",
		testutil.WithTarget("Fall", 100), testutil.WithTarget("Spring", 90)))
	putRole(t, database, "B", testutil.NewTestRole("course", "Biology",
		testutil.WithTarget("Fall", 50), testutil.WithTarget("Spring", 40)))
	putTask(t, database, 1, testutil.NewTestTask("A", "B", "Fall", 40))
	putTask(t, database, 2, testutil.NewTestTask("A", "B", "Spring", 30))
}
