package state

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE client_state (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "token", []byte("abc")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)
}

func TestGet_MissingKeyIsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestPut_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "user", []byte("old")))
	require.NoError(t, r.Put(ctx, "user", []byte("new")))

	v, err := r.Get(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_ManyKeysAndIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "token", []byte{1}))
	require.NoError(t, r.Put(ctx, "user", []byte{2}))
	require.NoError(t, r.Put(ctx, "other", []byte{3}))

	require.NoError(t, r.Delete(ctx, "token", "user"))
	require.NoError(t, r.Delete(ctx, "token", "user"))
	require.NoError(t, r.Delete(ctx))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, keys)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "a", []byte{1}))
	require.NoError(t, r.Put(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestUpdatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, ok, err := r.UpdatedAt(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Put(ctx, "token", []byte("x")))
	ts, ok, err := r.UpdatedAt(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get state[k]")

	require.ErrorContains(t, r.Put(ctx, "k", []byte("v")), "failed to put state[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete state[k]")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear state")

	_, err = r.Keys(ctx)
	require.ErrorContains(t, err, "failed to list state keys")

	_, _, err = r.UpdatedAt(ctx, "k")
	require.ErrorContains(t, err, "failed to get state[k] timestamp")
}
