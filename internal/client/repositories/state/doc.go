// Package state provides the persistence layer for the console's durable
// client state: a small key/value table holding the session token and the
// serialized user record between runs.
//
// The SQLite implementation (SQLiteRepository) works over a dbx.DBTX, so the
// same repository can run against *sql.DB or inside a *sql.Tx.
//
//	repo := state.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, "token", []byte(tok))
//	v, _ := repo.Get(ctx, "token") // nil, nil when absent
//	_ = repo.Delete(ctx, "token", "user")
package state
