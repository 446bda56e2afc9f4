package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"dailydsa/cache"
	"dailydsa/errs"
)

const redisKeyPrefix = "dailydsa:snapshot:"

// RedisStore keeps each record as a JSON value without expiry.
type RedisStore struct {
	cache cache.Cache
}

func NewRedisStore(c cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

func (r *RedisStore) Load(ctx context.Context, record string, v any) error {
	data, err := r.cache.Get(ctx, redisKeyPrefix+record)
	if err != nil {
		return fmt.Errorf("%w, %w", errs.ErrStorageIO, err)
	}
	if data == nil {
		return errs.ErrRecordNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", record, err)
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, record string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", record, err)
	}
	if err := r.cache.Set(ctx, redisKeyPrefix+record, data, 0); err != nil {
		return fmt.Errorf("%w, %w", errs.ErrStorageIO, err)
	}
	return nil
}
