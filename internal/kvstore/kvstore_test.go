package kvstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/loadboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStore_PutGet(t *testing.T) {
	store := New(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "#r1", json.RawMessage(`{"name":"Ada"}`)))

	got, ok, err := store.Get(ctx, "#r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Ada"}`, string(got))
}

func TestSQLStore_PutOverwrites(t *testing.T) {
	store := New(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ":1", json.RawMessage(`{"value":10}`)))
	require.NoError(t, store.Put(ctx, ":1", json.RawMessage(`{"value":20}`)))

	got, ok, err := store.Get(ctx, ":1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"value":20}`, string(got))
}

func TestSQLStore_PutRejectsInvalidJSON(t *testing.T) {
	store := New(testutil.NewTestDB(t))

	err := store.Put(context.Background(), ":1", json.RawMessage(`{oops`))
	assert.Error(t, err)
}

func TestSQLStore_GetMissing(t *testing.T) {
	store := New(testutil.NewTestDB(t))

	_, ok, err := store.Get(context.Background(), "#nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLStore_DeleteIsIdempotent(t *testing.T) {
	store := New(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, ":3", json.RawMessage(`{}`)))
	require.NoError(t, store.Delete(ctx, ":3"))
	require.NoError(t, store.Delete(ctx, ":3"))

	_, ok, err := store.Get(ctx, ":3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLStore_ScanFiltersByPrefix(t *testing.T) {
	store := New(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, key := range []string{"#b", ":2", "#a", "theme", ":10"} {
		require.NoError(t, store.Put(ctx, key, json.RawMessage(`{}`)))
	}

	roles, err := store.Scan(ctx, "#")
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "#a", roles[0].Key)
	assert.Equal(t, "#b", roles[1].Key)

	tasks, err := store.Scan(ctx, ":")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSQLStore_Clear(t *testing.T) {
	store := New(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "#a", json.RawMessage(`{}`)))
	require.NoError(t, store.Put(ctx, "other", json.RawMessage(`1`)))
	require.NoError(t, store.Clear(ctx))

	all, err := store.Scan(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
