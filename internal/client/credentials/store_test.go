package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, s.SaveAll(ctx, map[string][]byte{
		"token": []byte("abc"),
		"user":  []byte(`{"id":1}`),
	}))

	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)

	require.NoError(t, s.Set(ctx, "token", []byte("def")))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), v)

	require.NoError(t, s.Clear(ctx, "token", "user"))
	for _, k := range []string{"token", "user"} {
		v, err = s.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v, k)
	}
	require.NoError(t, s.Clear(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 0, s.Len())
	require.NoError(t, s.Close())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLiteStore(t *testing.T) {
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(db)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{CredentialBackend: config.BackendSQLite, DataDir: t.TempDir()}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.SaveAll(ctx, map[string][]byte{"token": []byte("abc")}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v)
	assert.FileExists(t, filepath.Join(cfg.DataDir, dbFileName))
}

func TestSQLiteStore_SaveAllRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO client_state").
		WithArgs("token", []byte("abc")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewSQLiteStore(db).SaveAll(context.Background(), map[string][]byte{"token": []byte("abc")})
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_SaveAllCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO client_state").
		WithArgs("user", []byte("{}")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = NewSQLiteStore(db).SaveAll(context.Background(), map[string][]byte{"user": []byte("{}")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{CredentialBackend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{CredentialBackend: "etcd"})
	require.ErrorContains(t, err, "unknown credential backend")
}

func TestOpen_RedisUnreachable(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{
		CredentialBackend: config.BackendRedis,
		RedisAddr:         "127.0.0.1:1",
	})
	require.ErrorContains(t, err, "redis ping")
}

func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("ADMIN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ADMIN_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	s := NewRedisStore(rdb, "adminconsole-test:"+t.Name()+":")
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}
