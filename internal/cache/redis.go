package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "revisor:"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func versionKey(namespace string) string {
	return keyPrefix + "ver:" + namespace
}

func entryKey(namespace string, version int64, key string) string {
	return fmt.Sprintf("%s%s:v%d:%s", keyPrefix, namespace, version, key)
}

func (r *RedisCache) Version(ctx context.Context, namespace string) (int64, error) {
	v, err := r.client.Get(ctx, versionKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.log.Warn("cache version read failed", zap.String("namespace", namespace), zap.Error(err))
		return 0, err
	}
	return v, nil
}

func (r *RedisCache) Get(ctx context.Context, namespace string, version int64, key string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, entryKey(namespace, version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		r.log.Warn("cache read failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.log.Warn("cache entry undecodable", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (r *RedisCache) Set(ctx context.Context, namespace string, version int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, entryKey(namespace, version, key), raw, r.ttl).Err(); err != nil {
		r.log.Warn("cache write failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *RedisCache) Invalidate(ctx context.Context, namespaces ...string) error {
	if len(namespaces) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, ns := range namespaces {
		pipe.Incr(ctx, versionKey(ns))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Error("cache invalidation failed", zap.Strings("namespaces", namespaces), zap.Error(err))
		return err
	}
	return nil
}
