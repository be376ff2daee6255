// Package credentials holds the durable session credentials (token and
// serialized user) between console runs. Backends: SQLite, Redis, memory.
package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/config"
	"github.com/dmitrijs2005/adminconsole/internal/filex"
	"github.com/redis/go-redis/v9"
)

// Store is a durable key/value store for credentials. Get returns (nil, nil)
// for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SaveAll writes every entry or none of them.
	SaveAll(ctx context.Context, entries map[string][]byte) error
	Clear(ctx context.Context, keys ...string) error
	Close() error
}

const dbFileName = "state.db"

// Open builds the store selected by cfg.CredentialBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.CredentialBackend {
	case config.BackendMemory:
		return NewMemoryStore(), nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisStore(rdb, cfg.RedisKeyPrefix), nil

	case config.BackendSQLite, "":
		path, err := filex.DataFile(cfg.DataDir, dbFileName)
		if err != nil {
			return nil, err
		}
		db, err := client.InitDatabase(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil

	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}
