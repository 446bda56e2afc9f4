package cache

import (
	"context"
	"time"
)

// Cache is an abstraction layer for key/value operations. Get returns a nil
// slice and no error on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
