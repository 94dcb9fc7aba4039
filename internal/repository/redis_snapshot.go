package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

// redisSnapshotStore keeps one hash per owner, one field per key.
type redisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshot(client *redis.Client) port.SnapshotStore {
	return &redisSnapshotStore{client: client}
}

// NewRedisClient accepts either a redis:// URL or a plain host:port address.
func NewRedisClient(addr string) *redis.Client {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	client := redis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())

	return client
}

func (r *redisSnapshotStore) Get(ctx context.Context, ownerID, key string) (string, bool, error) {
	if err := validateKey(ownerID, key); err != nil {
		return "", false, err
	}

	value, err := r.client.HGet(ctx, ownerID, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client.HGet: %w", err)
	}

	return value, true, nil
}

func (r *redisSnapshotStore) Set(ctx context.Context, ownerID, key, value string) error {
	if err := validateKey(ownerID, key); err != nil {
		return err
	}

	if err := r.client.HSet(ctx, ownerID, key, value).Err(); err != nil {
		return fmt.Errorf("client.HSet: %w", err)
	}

	return nil
}
