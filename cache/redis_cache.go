package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap/zapcore"

	"dailydsa/logger"
)

type RedisCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisCache(addr, password string, db int, log *logger.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{client: client, logger: log}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	err := r.client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		r.logger.Log(zapcore.ErrorLevel, "", "Failed to set key", map[string]any{
			"method": "Set",
			"key":    key,
		}, "CACHE", err)
		return fmt.Errorf("failed to set key %s in cache: %w", key, err)
	}
	r.logger.Log(zapcore.DebugLevel, "", "Key set", map[string]any{
		"method": "Set",
		"key":    key,
		"bytes":  len(value),
	}, "CACHE", nil)
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Log(zapcore.DebugLevel, "", "Cache miss", map[string]any{
			"method": "Get",
			"key":    key,
		}, "CACHE", nil)
		return nil, nil
	}
	if err != nil {
		r.logger.Log(zapcore.ErrorLevel, "", "Failed to get key", map[string]any{
			"method": "Get",
			"key":    key,
		}, "CACHE", err)
		return nil, fmt.Errorf("failed to get key %s from cache: %w", key, err)
	}
	return val, nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Log(zapcore.ErrorLevel, "", "Failed to delete key", map[string]any{
			"method": "Delete",
			"key":    key,
		}, "CACHE", err)
		return fmt.Errorf("failed to delete key %s from cache: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence of key %s in cache: %w", key, err)
	}
	return result > 0, nil
}
