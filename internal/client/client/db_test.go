package client_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/credentials"
	"github.com/dmitrijs2005/adminconsole/internal/client/repositories/state"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		out = append(out, name)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestInitDatabase_CreatesClientState(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, []string{"key", "value", "updated_at"}, columns(t, db, "client_state"))

	var version int64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT MAX(version_id) FROM goose_db_version`).Scan(&version))
	assert.Equal(t, int64(1), version)
}

func TestInitDatabase_SessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := client.InitDatabase(ctx, path)
	require.NoError(t, err)
	store := credentials.NewSQLiteStore(db)
	require.NoError(t, store.SaveAll(ctx, map[string][]byte{
		common.CredentialTokenKey: []byte("tok"),
		common.CredentialUserKey:  []byte(`{"id":6,"email":"admin@admin.com"}`),
	}))
	require.NoError(t, store.Close())

	// Reopening re-runs the migrations; stored credentials must survive.
	db, err = client.InitDatabase(ctx, path)
	require.NoError(t, err)
	store = credentials.NewSQLiteStore(db)
	defer store.Close()

	tok, err := store.Get(ctx, common.CredentialTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", string(tok))

	user, err := store.Get(ctx, common.CredentialUserKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":6,"email":"admin@admin.com"}`, string(user))
}

func TestRunMigrations_OnExistingConnection(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, client.RunMigrations(ctx, db))
	require.NoError(t, client.RunMigrations(ctx, db))

	_, err = db.ExecContext(ctx, `INSERT INTO client_state(key, value) VALUES (?, ?)`, common.CredentialTokenKey, []byte("t"))
	require.NoError(t, err)

	updated, ok, err := state.NewSQLiteRepository(db).UpdatedAt(ctx, common.CredentialTokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), updated, time.Minute, "updated_at defaults to the insert time")
}

func TestInitDatabase_FailsForMissingDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "missing", "state.db")
	_, err := client.InitDatabase(context.Background(), dsn)
	assert.Error(t, err)
}
