package credentials

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/adminconsole/internal/client/repositories/state"
	"github.com/dmitrijs2005/adminconsole/internal/dbx"
)

// SQLiteStore keeps credentials in the local client_state table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) repo() state.Repository {
	return state.NewSQLiteRepository(s.db)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.repo().Get(ctx, key)
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return s.repo().Put(ctx, key, value)
}

func (s *SQLiteStore) SaveAll(ctx context.Context, entries map[string][]byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		for k, v := range entries {
			if err := repo.Put(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context, keys ...string) error {
	return s.repo().Delete(ctx, keys...)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
