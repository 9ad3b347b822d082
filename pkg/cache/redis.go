package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/stocktake/pkg/config"
)

const pingTimeout = 2 * time.Second

// RedisClient is a pooled go-redis client whose keys live under one
// per-service namespace.
type RedisClient struct {
	client    *redis.Client
	namespace string
}

// NewRedisClient connects to cfg.RedisURL and pings it. An empty URL
// disables caching: the result is nil with no error.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	// One writer and a few readers.
	opts.PoolSize = 4
	opts.MinIdleConns = 1
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	rc := &RedisClient{client: redis.NewClient(opts), namespace: namespaceFor(cfg.ServiceName)}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.client.Close()
		return nil, err
	}
	return rc, nil
}

func namespaceFor(service string) string {
	if service == "" {
		return "stocktake"
	}
	return service
}

// Key returns name inside the client's namespace, e.g. "stocktake:summary".
func (r *RedisClient) Key(name string) string {
	return r.namespace + ":" + name
}

// Ping checks the connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the pool. It is safe on a nil client.
func (r *RedisClient) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying go-redis client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
