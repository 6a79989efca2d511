package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

// lookup reads a kv value through a fresh transaction.
func lookup(t *testing.T, uow db.UnitOfWork, key string) (string, bool) {
	t.Helper()
	var val string
	var found bool
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		err := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&val)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		found = err == nil
		return err
	})
	require.NoError(t, err)
	return val, found
}

func put(ctx context.Context, tx db.DBTX, key, val string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, key, val)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return put(ctx, tx, "#r1", `{"name":"Ada"}`)
	})
	require.NoError(t, err)

	val, found := lookup(t, uow, "#r1")
	assert.True(t, found)
	assert.Equal(t, `{"name":"Ada"}`, val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := put(ctx, tx, ":1", `{}`); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := lookup(t, uow, ":1")
	assert.False(t, found, "write should not survive rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = put(ctx, tx, ":2", `{}`)
			panic("boom")
		})
	})

	_, found := lookup(t, uow, ":2")
	assert.False(t, found)
}

type recordingConn struct {
	db.DBTX
	queries []string
}

func (r *recordingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.queries = append(r.queries, query)
	return nil, nil
}

func TestBind_PostgresRewritesPlaceholders(t *testing.T) {
	rec := &recordingConn{}
	conn := db.Bind(rec, db.Postgres)

	_, err := conn.ExecContext(context.Background(), `DELETE FROM kv WHERE key = ? OR key = ?`, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{`DELETE FROM kv WHERE key = $1 OR key = $2`}, rec.queries)
}

func TestBind_SQLiteIsIdentity(t *testing.T) {
	rec := &recordingConn{}
	assert.Same(t, rec, db.Bind(rec, db.SQLite))
}
