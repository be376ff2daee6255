package state

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
	Clear(ctx context.Context) error
}
