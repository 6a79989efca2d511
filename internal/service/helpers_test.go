package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/loadboard/internal/config"
	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/repository"
	"github.com/alexanderramin/loadboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.DBPath = ":memory:"
	return cfg
}

func setupServices(t *testing.T) (*Services, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return New(database, db.SQLite, testConfig()), database
}

// seedRole stores role under id, bypassing the service.
func seedRole(t *testing.T, database *sql.DB, id string, role *domain.Role) {
	t.Helper()
	require.NoError(t, repository.NewRoleRepo(database).Put(context.Background(), id, role))
}

// seedTask stores task under id, bypassing the service.
func seedTask(t *testing.T, database *sql.DB, id int, task *domain.Task) {
	t.Helper()
	require.NoError(t, repository.NewTaskRepo(database).Put(context.Background(), id, task))
}

func snapshotOf(t *testing.T, database *sql.DB) *domain.Snapshot {
	t.Helper()
	snap, err := repository.NewSnapshotRepo(database).ExportAll(context.Background())
	require.NoError(t, err)
	return snap
}

// seedScenario stores the two-role board: A (senior, Fall 100) and
// B (course, Fall 50) sharing one Fall task of 40.
func seedScenario(t *testing.T, database *sql.DB) {
	t.Helper()
	seedRole(t, database, "A", testutil.NewTestRole("senior", "Ada", testutil.WithTarget("Fall", 100)))
	seedRole(t, database, "B", testutil.NewTestRole("course", "Biology", testutil.WithTarget("Fall", 50)))
	seedTask(t, database, 1, testutil.NewTestTask("A", "B", "Fall", 40))
}
